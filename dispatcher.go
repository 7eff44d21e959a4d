package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Dispatcher fans one Event out to every enabled destination of a Registry.
//
// Each destination is attempted at most once. A failing destination never
// stops the others; its failure is recorded as an Outcome instead. Sends
// run on up to WithWorkers goroutines, and the Report always lists outcomes
// in registration order regardless of completion order.
//
// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	senders Senders
	opts    options
}

// NewDispatcher creates a Dispatcher that sends through senders.
//
// Example:
//
//	d := fanout.NewDispatcher(fanout.Senders{
//	    Queue: awssend.NewQueue(sqs.New(sess)),
//	    Topic: awssend.NewTopic(sns.New(sess)),
//	}, fanout.WithWorkers(8))
//
//	report := d.Dispatch(ctx, ev, registry)
func NewDispatcher(senders Senders, opts ...Option) *Dispatcher {
	return &Dispatcher{senders: senders, opts: newOptions(opts)}
}

func newDispatcherWith(senders Senders, o options) *Dispatcher {
	return &Dispatcher{senders: senders, opts: o}
}

// Dispatch sends ev to each enabled destination in reg and returns the
// aggregated report. It never returns an error; failures are data.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event, reg *Registry) Report {
	start := d.opts.now()

	for _, dest := range reg.Disabled() {
		d.opts.hooks.callOnSkip(ctx, dest)
	}

	dests := reg.Enabled()
	outcomes := make([]Outcome, len(dests))

	workers := min(len(dests), d.opts.workers)
	if workers <= 1 {
		for i, dest := range dests {
			outcomes[i] = d.deliver(ctx, ev, dest)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					outcomes[i] = d.deliver(ctx, ev, dests[i])
				}
			}()
		}
		for i := range dests {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	report := Aggregate(outcomes)
	d.opts.hooks.callOnComplete(ctx, ev, report, d.opts.now().Sub(start))
	return report
}

// deliver attempts one destination and never panics past its caller.
func (d *Dispatcher) deliver(ctx context.Context, ev Event, dest Destination) (out Outcome) {
	start := d.opts.now()
	defer func() {
		if r := recover(); r != nil {
			out = failure(dest, ErrUnexpected, "", fmt.Sprintf("Unexpected error: %v", r))
		}
		d.opts.hooks.callOnOutcome(ctx, dest, out, d.opts.now().Sub(start))
	}()

	if dest.Target == "" {
		return failure(dest, ErrMissingTarget, "", fmt.Sprintf("Missing target for %s", dest.Name))
	}

	var send func(context.Context) (string, error)
	switch dest.Kind {
	case KindQueue:
		if d.senders.Queue == nil {
			return failure(dest, ErrUnexpected, "", "Unexpected error: no queue sender configured")
		}
		msg, err := BuildQueueMessage(ev, dest)
		if err != nil {
			return failure(dest, ErrUnexpected, "", "Unexpected error: "+err.Error())
		}
		send = func(ctx context.Context) (string, error) {
			return d.senders.Queue.SendQueue(ctx, dest.Target, msg)
		}
	case KindTopic:
		if d.senders.Topic == nil {
			return failure(dest, ErrUnexpected, "", "Unexpected error: no topic sender configured")
		}
		msg, err := BuildTopicMessage(ev, dest, d.opts.subject)
		if err != nil {
			return failure(dest, ErrUnexpected, "", "Unexpected error: "+err.Error())
		}
		send = func(ctx context.Context) (string, error) {
			return d.senders.Topic.Publish(ctx, dest.Target, msg)
		}
	default:
		return failure(dest, ErrUnsupportedKind, "", fmt.Sprintf("Unsupported destination type: %s", dest.Kind))
	}

	sendCtx := ctx
	if d.opts.sendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.opts.sendTimeout)
		defer cancel()
	}

	d.opts.hooks.callOnSend(ctx, dest)
	id, err := send(sendCtx)
	if err != nil {
		return classify(dest, err)
	}

	return Outcome{
		Destination: dest.Name,
		Kind:        dest.Kind,
		Target:      dest.Target,
		Success:     true,
		MessageID:   id,
	}
}

// classify turns a send error into a failed Outcome.
func classify(dest Destination, err error) Outcome {
	var se *SendError
	if errors.As(err, &se) {
		var detail string
		switch se.Kind {
		case ErrPermissionDenied:
			detail = "Permission denied: " + se.Message
		case ErrInvalidDestination:
			detail = "Invalid destination: " + se.Message
		case ErrNoCredentials:
			detail = "No AWS credentials available"
		case ErrProviderError:
			detail = "AWS error: " + se.Message
		default:
			return failure(dest, ErrUnexpected, se.Code, "Unexpected error: "+se.Error())
		}
		return failure(dest, se.Kind, se.Code, detail)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return failure(dest, ErrUnexpected, "", "Unexpected error: send timed out")
	}
	return failure(dest, ErrUnexpected, "", "Unexpected error: "+err.Error())
}

func failure(dest Destination, kind ErrorKind, code, detail string) Outcome {
	return Outcome{
		Destination: dest.Name,
		Kind:        dest.Kind,
		Target:      dest.Target,
		Error:       kind,
		Code:        code,
		Detail:      detail,
	}
}

