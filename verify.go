package fanout

// Verification statuses.
const (
	VerificationSuccess = "success"
	VerificationWarning = "warning"
)

// Verification describes a registry without sending anything. It is what
// operators inspect to confirm which destinations a deployment will use.
type Verification struct {
	Timestamp        string              `json:"timestamp"`
	Origin           string              `json:"origin,omitempty"`
	Total            int                 `json:"total_destinations_loaded"`
	Enabled          []DestinationStatus `json:"enabled_destinations"`
	Summary          string              `json:"destination_summary"`
	Types            map[Kind]int        `json:"destination_types"`
	Status           string              `json:"verification_status"`
	ValidationErrors []string            `json:"validation_errors,omitempty"`
}

// Verify builds a Verification of r. timestamp is copied into the result
// as given.
func (r *Registry) Verify(timestamp string) Verification {
	st := r.Status()
	v := Verification{
		Timestamp: timestamp,
		Total:     st.Total,
		Enabled:   []DestinationStatus{},
		Summary:   r.Summary(),
		Types:     st.Types,
		Status:    VerificationSuccess,
	}
	for _, d := range st.Destinations {
		if d.Enabled {
			v.Enabled = append(v.Enabled, d)
		}
	}
	for _, err := range r.Validate() {
		v.ValidationErrors = append(v.ValidationErrors, err.Error())
	}
	if len(v.ValidationErrors) > 0 {
		v.Status = VerificationWarning
	}
	return v
}
