package fanout

import (
	"context"
	"fmt"
	"sync"
)

// sent is one call recorded by fakeSender.
type sent struct {
	Target string
	Msg    Message
}

// fakeSender implements QueueSender and TopicSender. respond decides the
// result per target; with no respond every send succeeds.
type fakeSender struct {
	respond func(ctx context.Context, target string) (string, error)

	mu    sync.Mutex
	calls []sent
}

func (f *fakeSender) SendQueue(ctx context.Context, target string, msg Message) (string, error) {
	return f.send(ctx, target, msg)
}

func (f *fakeSender) Publish(ctx context.Context, target string, msg Message) (string, error) {
	return f.send(ctx, target, msg)
}

func (f *fakeSender) send(ctx context.Context, target string, msg Message) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, sent{Target: target, Msg: msg})
	n := len(f.calls)
	f.mu.Unlock()

	if f.respond != nil {
		return f.respond(ctx, target)
	}
	return fmt.Sprintf("msg-%d", n), nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSender) targets() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.calls))
	for _, c := range f.calls {
		out[c.Target] = true
	}
	return out
}

// sendersOf uses f for both queue and topic sends.
func sendersOf(f *fakeSender) Senders {
	return Senders{Queue: f, Topic: f}
}
