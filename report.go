package fanout

// ErrorKind classifies a failed Outcome.
type ErrorKind string

// Per-destination failure classes.
const (
	ErrMissingTarget      ErrorKind = "MissingTarget"
	ErrUnsupportedKind    ErrorKind = "UnsupportedKind"
	ErrPermissionDenied   ErrorKind = "PermissionDenied"
	ErrInvalidDestination ErrorKind = "InvalidDestination"
	ErrProviderError      ErrorKind = "ProviderError"
	ErrNoCredentials      ErrorKind = "NoCredentials"
	ErrUnexpected         ErrorKind = "Unexpected"
)

func (k ErrorKind) String() string { return string(k) }

// Outcome is the result of one send attempt to one destination.
type Outcome struct {
	Destination string    `json:"destination"`
	Kind        Kind      `json:"type"`
	Target      string    `json:"target,omitempty"`
	Success     bool      `json:"success"`
	MessageID   string    `json:"message_id,omitempty"`
	Error       ErrorKind `json:"error_kind,omitempty"`
	Code        string    `json:"error_code,omitempty"`
	Detail      string    `json:"error,omitempty"`
}

// Report aggregates the outcomes of one dispatch.
//
// TotalProcessed always equals len(Successes) + len(Failures).
type Report struct {
	TotalProcessed int       `json:"total_processed"`
	Successes      []Outcome `json:"successful"`
	Failures       []Outcome `json:"failed"`
}

// Success reports whether every attempted destination succeeded. An empty
// report is successful.
func (r Report) Success() bool {
	return len(r.Failures) == 0
}

// Aggregate partitions outcomes into successes and failures, keeping the
// original order within each partition.
func Aggregate(outcomes []Outcome) Report {
	r := Report{
		TotalProcessed: len(outcomes),
		Successes:      []Outcome{},
		Failures:       []Outcome{},
	}
	for _, o := range outcomes {
		if o.Success {
			r.Successes = append(r.Successes, o)
		} else {
			r.Failures = append(r.Failures, o)
		}
	}
	return r
}
