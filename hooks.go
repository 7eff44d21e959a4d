package fanout

import (
	"context"
	"time"
)

// OnNormalizeFunc is called after a trigger is normalized. Use it to enrich
// the context with logging fields. The returned context is used for the rest
// of the invocation.
type OnNormalizeFunc func(ctx context.Context, shape string, ev Event) context.Context

// OnNoShapeFunc is called when no shape recognizes the trigger payload.
type OnNoShapeFunc func(ctx context.Context, raw []byte, err error)

// OnConfigErrorFunc is called when the registry cannot be loaded.
type OnConfigErrorFunc func(ctx context.Context, err error)

// OnInvalidDestinationFunc is called once per validation error after the
// registry is loaded.
type OnInvalidDestinationFunc func(ctx context.Context, err error)

// OnSkipFunc is called for each disabled destination.
type OnSkipFunc func(ctx context.Context, d Destination)

// OnSendFunc is called just before a send capability is invoked.
type OnSendFunc func(ctx context.Context, d Destination)

// OnSuccessFunc is called after a destination accepts the message.
type OnSuccessFunc func(ctx context.Context, d Destination, o Outcome, duration time.Duration)

// OnFailureFunc is called after a destination fails, including failures
// decided without a send attempt (missing target, unsupported kind).
type OnFailureFunc func(ctx context.Context, d Destination, o Outcome, duration time.Duration)

// OnCompleteFunc is called once all destinations have been processed.
type OnCompleteFunc func(ctx context.Context, ev Event, r Report, duration time.Duration)

// hooks holds all configured hook functions.
type hooks struct {
	onNormalize          []OnNormalizeFunc
	onNoShape            []OnNoShapeFunc
	onConfigError        []OnConfigErrorFunc
	onInvalidDestination []OnInvalidDestinationFunc
	onSkip               []OnSkipFunc
	onSend               []OnSendFunc
	onSuccess            []OnSuccessFunc
	onFailure            []OnFailureFunc
	onComplete           []OnCompleteFunc
}

// WithOnNormalize adds a hook called after a trigger is normalized.
// Multiple hooks are called in order, with context chaining through each.
//
// Example:
//
//	fanout.WithOnNormalize(func(ctx context.Context, shape string, ev fanout.Event) context.Context {
//	    return logx.WithCtx(ctx, slog.String("bucket", ev.Bucket))
//	})
func WithOnNormalize(fn OnNormalizeFunc) Option {
	return func(o *options) {
		o.hooks.onNormalize = append(o.hooks.onNormalize, fn)
	}
}

// WithOnNoShape adds a hook called when the trigger is not recognized.
func WithOnNoShape(fn OnNoShapeFunc) Option {
	return func(o *options) {
		o.hooks.onNoShape = append(o.hooks.onNoShape, fn)
	}
}

// WithOnConfigError adds a hook called when the registry fails to load.
func WithOnConfigError(fn OnConfigErrorFunc) Option {
	return func(o *options) {
		o.hooks.onConfigError = append(o.hooks.onConfigError, fn)
	}
}

// WithOnInvalidDestination adds a hook called for each registry validation
// error.
func WithOnInvalidDestination(fn OnInvalidDestinationFunc) Option {
	return func(o *options) {
		o.hooks.onInvalidDestination = append(o.hooks.onInvalidDestination, fn)
	}
}

// WithOnSkip adds a hook called for each disabled destination.
func WithOnSkip(fn OnSkipFunc) Option {
	return func(o *options) {
		o.hooks.onSkip = append(o.hooks.onSkip, fn)
	}
}

// WithOnSend adds a hook called before each send attempt.
//
// Send hooks run on dispatch workers and may be called concurrently.
func WithOnSend(fn OnSendFunc) Option {
	return func(o *options) {
		o.hooks.onSend = append(o.hooks.onSend, fn)
	}
}

// WithOnSuccess adds a hook called after each successful send.
//
// Example:
//
//	fanout.WithOnSuccess(func(ctx context.Context, d fanout.Destination, o fanout.Outcome, dur time.Duration) {
//	    metrics.Timing("fanout.success", dur, "destination:"+d.Name)
//	})
//
// Success hooks run on dispatch workers and may be called concurrently.
func WithOnSuccess(fn OnSuccessFunc) Option {
	return func(o *options) {
		o.hooks.onSuccess = append(o.hooks.onSuccess, fn)
	}
}

// WithOnFailure adds a hook called after each failed destination.
//
// Failure hooks run on dispatch workers and may be called concurrently.
func WithOnFailure(fn OnFailureFunc) Option {
	return func(o *options) {
		o.hooks.onFailure = append(o.hooks.onFailure, fn)
	}
}

// WithOnComplete adds a hook called with the final report of a dispatch.
func WithOnComplete(fn OnCompleteFunc) Option {
	return func(o *options) {
		o.hooks.onComplete = append(o.hooks.onComplete, fn)
	}
}

func (h *hooks) callOnNormalize(ctx context.Context, shape string, ev Event) context.Context {
	for _, fn := range h.onNormalize {
		ctx = fn(ctx, shape, ev)
	}
	return ctx
}

func (h *hooks) callOnNoShape(ctx context.Context, raw []byte, err error) {
	for _, fn := range h.onNoShape {
		fn(ctx, raw, err)
	}
}

func (h *hooks) callOnConfigError(ctx context.Context, err error) {
	for _, fn := range h.onConfigError {
		fn(ctx, err)
	}
}

func (h *hooks) callOnInvalidDestination(ctx context.Context, errs []error) {
	for _, err := range errs {
		for _, fn := range h.onInvalidDestination {
			fn(ctx, err)
		}
	}
}

func (h *hooks) callOnSkip(ctx context.Context, d Destination) {
	for _, fn := range h.onSkip {
		fn(ctx, d)
	}
}

func (h *hooks) callOnSend(ctx context.Context, d Destination) {
	for _, fn := range h.onSend {
		fn(ctx, d)
	}
}

func (h *hooks) callOnOutcome(ctx context.Context, d Destination, o Outcome, duration time.Duration) {
	if o.Success {
		for _, fn := range h.onSuccess {
			fn(ctx, d, o, duration)
		}
		return
	}
	for _, fn := range h.onFailure {
		fn(ctx, d, o, duration)
	}
}

func (h *hooks) callOnComplete(ctx context.Context, ev Event, r Report, duration time.Duration) {
	for _, fn := range h.onComplete {
		fn(ctx, ev, r, duration)
	}
}
