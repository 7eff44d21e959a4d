package fanout

import (
	"fmt"
	"strings"
)

// Registry is the ordered, read-only set of configured destinations.
//
// Disabled destinations are kept so Status can report them, but only
// Enabled destinations take part in dispatch.
type Registry struct {
	all []Destination
}

// NewRegistry creates a Registry over ds in the given order. The slice is
// copied; later changes to ds do not affect the registry.
func NewRegistry(ds []Destination) *Registry {
	all := make([]Destination, len(ds))
	copy(all, ds)
	return &Registry{all: all}
}

// All returns every configured destination in registration order.
func (r *Registry) All() []Destination {
	out := make([]Destination, len(r.all))
	copy(out, r.all)
	return out
}

// Enabled returns the enabled destinations in registration order.
func (r *Registry) Enabled() []Destination {
	return r.filter(true)
}

// Disabled returns the disabled destinations in registration order.
func (r *Registry) Disabled() []Destination {
	return r.filter(false)
}

func (r *Registry) filter(enabled bool) []Destination {
	var out []Destination
	for _, d := range r.all {
		if d.Enabled == enabled {
			out = append(out, d)
		}
	}
	return out
}

// Summary returns a human-readable listing of the enabled destinations.
func (r *Registry) Summary() string {
	enabled := r.Enabled()
	if len(enabled) == 0 {
		return "No enabled destinations configured"
	}

	var b strings.Builder
	b.WriteString("Currently Enabled Destinations:\n")
	for i, d := range enabled {
		desc := d.Description
		if desc == "" {
			desc = "No description"
		}
		target := d.Target
		if target == "" {
			target = "no-target"
		}
		fmt.Fprintf(&b, "  %d. %s (%s)\n", i+1, d.Name, strings.ToUpper(d.Kind.String()))
		fmt.Fprintf(&b, "     Target: %s\n", target)
		fmt.Fprintf(&b, "     Description: %s\n\n", desc)
	}
	fmt.Fprintf(&b, "Total Enabled Destinations: %d", len(enabled))
	return b.String()
}

// Status is a point-in-time description of a Registry.
type Status struct {
	Total        int                 `json:"total_destinations"`
	Enabled      int                 `json:"enabled_destinations"`
	Types        map[Kind]int        `json:"destination_types"`
	Destinations []DestinationStatus `json:"destinations"`
}

// DestinationStatus is one entry of Status.
type DestinationStatus struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"type"`
	Enabled     bool   `json:"enabled"`
	Target      string `json:"target"`
	Description string `json:"description"`
}

// Status counts destinations by kind and lists all of them with their
// enabled flag.
func (r *Registry) Status() Status {
	s := Status{
		Total:        len(r.all),
		Types:        make(map[Kind]int),
		Destinations: make([]DestinationStatus, 0, len(r.all)),
	}
	for _, d := range r.all {
		if d.Enabled {
			s.Enabled++
		}
		s.Types[d.Kind]++
		s.Destinations = append(s.Destinations, DestinationStatus{
			Name:        d.Name,
			Kind:        d.Kind,
			Enabled:     d.Enabled,
			Target:      d.Target,
			Description: d.Description,
		})
	}
	return s
}

// ValidationError describes one misconfigured destination.
type ValidationError struct {
	Destination string
	Reason      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("destination %q %s", e.Destination, e.Reason)
}

// Validate reports every destination with an empty target, an unsupported
// kind, or a name already used by an earlier destination. A nil result
// means the registry is valid.
func (r *Registry) Validate() []error {
	var errs []error
	seen := make(map[string]bool, len(r.all))
	for _, d := range r.all {
		switch {
		case d.Target == "":
			errs = append(errs, &ValidationError{Destination: d.Name, Reason: "has no target"})
		case !d.Kind.Valid():
			errs = append(errs, &ValidationError{Destination: d.Name, Reason: fmt.Sprintf("has unsupported type: %s", d.Kind)})
		}
		if seen[d.Name] {
			errs = append(errs, &ValidationError{Destination: d.Name, Reason: "is defined more than once"})
		}
		seen[d.Name] = true
	}
	return errs
}
