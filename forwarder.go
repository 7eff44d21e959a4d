package fanout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Response is what a Forwarder returns for one invocation.
type Response struct {
	StatusCode int          `json:"statusCode"`
	Body       ResponseBody `json:"body"`
}

// ResponseBody carries the outcome of an invocation.
type ResponseBody struct {
	Success           bool              `json:"success"`
	Message           string            `json:"message"`
	Error             string            `json:"error,omitempty"`
	Shape             string            `json:"shape,omitempty"`
	Event             *Event            `json:"event,omitempty"`
	Results           *Report           `json:"results,omitempty"`
	DestinationStatus *Status           `json:"destination_status,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// Forwarder handles one trigger invocation end to end: normalize, load the
// registry, dispatch, and build the Response.
//
// Handle never returns an error. Unrecognized triggers yield 400,
// configuration failures and internal errors yield 500, and everything else
// yields 200 with the report's success flag describing partial failure
// (see WithPartialFailureStatus).
type Forwarder struct {
	normalizer *Normalizer
	loader     Loader
	dispatcher *Dispatcher
	opts       options
}

// NewForwarder creates a Forwarder that loads destinations from loader and
// sends through senders.
//
// Example:
//
//	f := fanout.NewForwarder(
//	    fanout.CacheLoader(configLoader),
//	    fanout.Senders{Queue: queue, Topic: topic},
//	    fanout.WithOnFailure(func(ctx context.Context, d fanout.Destination, o fanout.Outcome, _ time.Duration) {
//	        log.Printf("destination %s failed: %s", d.Name, o.Detail)
//	    }),
//	)
//
//	lambda.Start(func(ctx context.Context, raw json.RawMessage) (fanout.Response, error) {
//	    return f.Handle(ctx, raw), nil
//	})
func NewForwarder(loader Loader, senders Senders, opts ...Option) *Forwarder {
	o := newOptions(opts)
	return &Forwarder{
		normalizer: NewNormalizer(o.shapes...),
		loader:     loader,
		dispatcher: newDispatcherWith(senders, o),
		opts:       o,
	}
}

// Handle processes one raw trigger payload.
func (f *Forwarder) Handle(ctx context.Context, raw []byte) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = f.respond(http.StatusInternalServerError, ResponseBody{
				Message: "Internal server error",
				Error:   fmt.Sprintf("%v", r),
			})
		}
	}()

	ev, shape, err := f.normalizer.Normalize(raw)
	if err != nil {
		f.opts.hooks.callOnNoShape(ctx, raw, err)
		return f.respond(http.StatusBadRequest, ResponseBody{
			Message: ErrNotRecognized.Error(),
			Error:   err.Error(),
		})
	}
	ctx = f.opts.hooks.callOnNormalize(ctx, shape, ev)

	reg, err := f.loader.Load(ctx)
	if err == nil && reg == nil {
		err = errors.New("loader returned no registry")
	}
	if err != nil {
		if !errors.Is(err, ErrConfiguration) {
			err = fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		f.opts.hooks.callOnConfigError(ctx, err)
		return f.respond(http.StatusInternalServerError, ResponseBody{
			Message: ErrConfiguration.Error(),
			Error:   err.Error(),
			Shape:   shape,
			Event:   &ev,
		})
	}
	if errs := reg.Validate(); len(errs) > 0 {
		f.opts.hooks.callOnInvalidDestination(ctx, errs)
	}

	report := f.dispatcher.Dispatch(ctx, ev, reg)
	status := reg.Status()

	code := http.StatusOK
	if !report.Success() {
		code = f.opts.partialStatus
	}

	return f.respond(code, ResponseBody{
		Success: report.Success(),
		Message: fmt.Sprintf("Forwarded to %d destinations, %d failed",
			len(report.Successes), len(report.Failures)),
		Shape:             shape,
		Event:             &ev,
		Results:           &report,
		DestinationStatus: &status,
	})
}

func (f *Forwarder) respond(code int, body ResponseBody) Response {
	if len(f.opts.metadata) > 0 {
		body.Metadata = f.opts.metadata
	}
	return Response{StatusCode: code, Body: body}
}
