package fanout

import (
	"context"
	"fmt"
)

// QueueSender delivers a message to a point-to-point queue and returns the
// provider-assigned message ID.
//
// Implementations must be safe for concurrent use; the Dispatcher calls
// them from several workers at once. Provider failures should be reported
// as *SendError so they are classified precisely; any other error is
// reported as ErrUnexpected.
type QueueSender interface {
	SendQueue(ctx context.Context, target string, msg Message) (string, error)
}

// QueueSenderFunc is a function adapter for QueueSender.
type QueueSenderFunc func(ctx context.Context, target string, msg Message) (string, error)

// SendQueue implements the QueueSender interface.
func (f QueueSenderFunc) SendQueue(ctx context.Context, target string, msg Message) (string, error) {
	return f(ctx, target, msg)
}

// TopicSender publishes a message to a topic and returns the
// provider-assigned message ID. The same concurrency and error rules as
// QueueSender apply.
type TopicSender interface {
	Publish(ctx context.Context, target string, msg Message) (string, error)
}

// TopicSenderFunc is a function adapter for TopicSender.
type TopicSenderFunc func(ctx context.Context, target string, msg Message) (string, error)

// Publish implements the TopicSender interface.
func (f TopicSenderFunc) Publish(ctx context.Context, target string, msg Message) (string, error) {
	return f(ctx, target, msg)
}

// Senders bundles the send capabilities injected into a Dispatcher. A nil
// field means destinations of that kind fail with ErrUnexpected.
type Senders struct {
	Queue QueueSender
	Topic TopicSender
}

// SendError is a classified provider failure returned by a send capability.
type SendError struct {
	// Kind is one of ErrPermissionDenied, ErrInvalidDestination,
	// ErrProviderError, or ErrNoCredentials.
	Kind ErrorKind

	// Code is the provider's error code, if any.
	Code string

	// Message is the provider's error message.
	Message string

	Err error
}

func (e *SendError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SendError) Unwrap() error { return e.Err }
