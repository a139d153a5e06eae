// Package commentary produces the flirty message/emoji pair shown next to
// the calculator. Providers call a remote text-generation API and may fail;
// Service wraps them so callers always get a Comment.
package commentary

import "context"

// Comment is one message/emoji pair for the display.
type Comment struct {
	Message string `json:"message"`
	Emoji   string `json:"emoji"`

	// Fallback is true when the comment is one of the fixed pairs used in
	// place of a provider response.
	Fallback bool `json:"fallback"`
}

// Provider is a remote source of comments. Implementations must be safe to
// call concurrently. A non-nil error means no usable comment was produced.
type Provider interface {
	// EquationComment reacts to a finished calculation, e.g. ("5 + 3", "8").
	EquationComment(ctx context.Context, equation, result string) (Comment, error)

	// PickupLine returns a math-themed pick-up line.
	PickupLine(ctx context.Context) (Comment, error)
}
