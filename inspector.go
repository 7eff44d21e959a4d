package fanout

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when a trigger payload is not valid JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

// Inspector examines a raw trigger payload and returns a View for field
// queries. Shapes never touch raw bytes directly; they read through a View.
type Inspector interface {
	Inspect(raw []byte) (View, error)
}

// View provides read-only field access over one JSON document. Paths use
// gjson syntax, so array queries such as Records.#(eventSource=="aws:s3")
// are valid.
type View interface {
	// HasField returns true if the path exists in the document.
	HasField(path string) bool

	// GetString returns the string value at path, or false if not found
	// or not a string.
	GetString(path string) (string, bool)

	// GetBytes returns the raw JSON at path, or false if not found.
	GetBytes(path string) ([]byte, bool)

	// Sub returns a View rooted at path. Use it to read a single record
	// out of a list without rebuilding every path.
	Sub(path string) (View, bool)
}

// JSONInspector returns an Inspector that uses gjson for field access.
func JSONInspector() Inspector {
	return jsonInspector{}
}

type jsonInspector struct{}

func (jsonInspector) Inspect(raw []byte) (View, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	return jsonView{raw: raw}, nil
}

type jsonView struct {
	raw []byte
}

func (v jsonView) HasField(path string) bool {
	return gjson.GetBytes(v.raw, path).Exists()
}

func (v jsonView) GetString(path string) (string, bool) {
	r := gjson.GetBytes(v.raw, path)
	if !r.Exists() || r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}

func (v jsonView) GetBytes(path string) ([]byte, bool) {
	r := gjson.GetBytes(v.raw, path)
	if !r.Exists() {
		return nil, false
	}
	return []byte(r.Raw), true
}

func (v jsonView) Sub(path string) (View, bool) {
	r := gjson.GetBytes(v.raw, path)
	if !r.Exists() || !r.IsObject() {
		return nil, false
	}
	return jsonView{raw: []byte(r.Raw)}, true
}

// stringOr reads path from v, falling back when absent or empty.
func stringOr(v View, path, fallback string) string {
	if s, ok := v.GetString(path); ok && s != "" {
		return s
	}
	return fallback
}
