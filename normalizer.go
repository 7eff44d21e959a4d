package fanout

import (
	"errors"
	"fmt"
)

// ErrNotRecognized is returned when no shape matches a trigger payload.
var ErrNotRecognized = errors.New("no valid S3 event found")

// Normalizer converts trigger payloads into Events.
//
// Shapes are tried in registration order and the first whose Discriminator
// matches wins. Normalizer holds no mutable state and is safe for
// concurrent use.
type Normalizer struct {
	inspector Inspector
	shapes    []Shape
}

// NewNormalizer creates a Normalizer over the given shapes. With no shapes
// it uses DefaultShapes.
func NewNormalizer(shapes ...Shape) *Normalizer {
	if len(shapes) == 0 {
		shapes = DefaultShapes()
	}
	return &Normalizer{inspector: JSONInspector(), shapes: shapes}
}

// Normalize returns the Event for raw and the name of the shape that
// produced it. Unparseable or unrecognized payloads return an error wrapping
// ErrNotRecognized.
func (n *Normalizer) Normalize(raw []byte) (Event, string, error) {
	own := make([]byte, len(raw))
	copy(own, raw)

	view, err := n.inspector.Inspect(own)
	if err != nil {
		return Event{}, "", fmt.Errorf("%w: %w", ErrNotRecognized, err)
	}

	for _, shape := range n.shapes {
		if !shape.Discriminator().Match(view) {
			continue
		}
		ev, err := shape.Extract(view, own)
		if err != nil {
			if errors.Is(err, ErrNotRecognized) {
				return Event{}, "", err
			}
			return Event{}, "", fmt.Errorf("%w: shape %s: %w", ErrNotRecognized, shape.Name(), err)
		}
		if ev.Name == "" {
			ev.Name = UnknownEventName
		}
		return ev, shape.Name(), nil
	}

	return Event{}, "", ErrNotRecognized
}
