package session

import (
	"time"

	"crush-calc/internal/calculator"
	"crush-calc/internal/commentary"
)

// KeyRequest is the JSON body for POST /sessions/{id}/keys. Either field may
// be used; Key is applied before Keys.
type KeyRequest struct {
	Key  string   `json:"key,omitempty"`  // single keypad label, e.g. "7", "+", "AC"
	Keys []string `json:"keys,omitempty"` // sequence, e.g. ["5", "+", "3", "="]
}

// Display is the UI-only record kept next to the calculator state. It never
// influences arithmetic.
type Display struct {
	Comment  *commentary.Comment `json:"comment"`
	Thinking bool                `json:"thinking"`
}

// Snapshot is the JSON response for every session endpoint and the payload
// of the SSE "snapshot" event.
type Snapshot struct {
	ID        string           `json:"id"`
	State     calculator.State `json:"state"`
	Display   Display          `json:"display"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// CommentEvent is the payload of the SSE "comment" event.
type CommentEvent struct {
	ID      string  `json:"id"`
	Display Display `json:"display"`
}

// StateEvent is the payload of the SSE "state" event.
type StateEvent struct {
	ID     string           `json:"id"`
	Action string           `json:"action"`
	State  calculator.State `json:"state"`
}
