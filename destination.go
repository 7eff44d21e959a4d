package fanout

import "strings"

// Kind is the type of a destination.
type Kind string

// Supported destination kinds.
const (
	KindQueue Kind = "sqs"
	KindTopic Kind = "sns"
)

// ParseKind maps a configured type name to a Kind. "sqs" and "queue" map to
// KindQueue, "sns" and "topic" to KindTopic, case-insensitively. Any other
// value is kept lowercased and reports false from Valid.
func ParseKind(s string) Kind {
	switch k := strings.ToLower(strings.TrimSpace(s)); k {
	case "sqs", "queue":
		return KindQueue
	case "sns", "topic":
		return KindTopic
	default:
		return Kind(k)
	}
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	return k == KindQueue || k == KindTopic
}

func (k Kind) String() string { return string(k) }

// DefaultDestinationName is used for destinations configured without a name.
const DefaultDestinationName = "unknown"

// Destination is one configured send target.
//
// Target is a queue URL (or queue ARN) for KindQueue and a topic ARN for
// KindTopic.
type Destination struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"type"`
	Target      string `json:"target"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description,omitempty"`
}

// Queue returns an enabled queue destination.
func Queue(name, url string) Destination {
	return Destination{Name: name, Kind: KindQueue, Target: url, Enabled: true}
}

// Topic returns an enabled topic destination.
func Topic(name, arn string) Destination {
	return Destination{Name: name, Kind: KindTopic, Target: arn, Enabled: true}
}
