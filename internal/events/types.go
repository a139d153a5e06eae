// Package events carries display updates from a calculator session to its
// listeners (SSE clients, the terminal REPL).
package events

import "encoding/json"

// Event names.
const (
	// Snapshot is the full session view, sent once when a listener attaches.
	Snapshot = "snapshot"
	// State follows every applied key press.
	State = "state"
	// Comment follows every change to the comment display, including the
	// "thinking" indicator and clears.
	Comment = "comment"
)

// Event is one named, JSON-encoded update.
type Event struct {
	Name string
	Data json.RawMessage
}

// DecodeAs unmarshals the event payload into T. Empty data yields the zero
// value of T.
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
