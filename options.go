package fanout

import (
	"net/http"
	"time"
)

// Defaults for dispatch concurrency and per-send timeout.
const (
	DefaultWorkers     = 4
	DefaultSendTimeout = 5 * time.Second
)

// Option configures a Dispatcher or Forwarder.
type Option func(*options)

type options struct {
	hooks         hooks
	workers       int
	sendTimeout   time.Duration
	subject       SubjectMode
	shapes        []Shape
	partialStatus int
	metadata      map[string]string
	now           func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		workers:       DefaultWorkers,
		sendTimeout:   DefaultSendTimeout,
		partialStatus: http.StatusOK,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// WithWorkers bounds how many sends run at once. Values below one are
// treated as one, which dispatches sequentially.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithSendTimeout bounds each send attempt. Zero disables the timeout.
func WithSendTimeout(d time.Duration) Option {
	return func(o *options) {
		o.sendTimeout = d
	}
}

// WithSubjectMode selects the subject line format for topic destinations.
func WithSubjectMode(m SubjectMode) Option {
	return func(o *options) {
		o.subject = m
	}
}

// WithShapes replaces the trigger shapes a Forwarder recognizes.
func WithShapes(shapes ...Shape) Option {
	return func(o *options) {
		o.shapes = shapes
	}
}

// WithPartialFailureStatus sets the status code a Forwarder returns when at
// least one destination failed. The default is 200; the report's success
// flag carries the partial failure.
func WithPartialFailureStatus(code int) Option {
	return func(o *options) {
		o.partialStatus = code
	}
}

// WithMetadata adds static key/value pairs, such as the deployment
// environment, to every Forwarder response body.
func WithMetadata(md map[string]string) Option {
	return func(o *options) {
		if o.metadata == nil {
			o.metadata = make(map[string]string, len(md))
		}
		for k, v := range md {
			o.metadata[k] = v
		}
	}
}
