package commentary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const systemPrompt = `You are Crush Calc, a flirty, cute and charming calculator companion.
Keep everything PG-13, playful and brief: one sentence at most.
Respond ONLY with a JSON object of the form {"message": "...", "emoji": "..."} where emoji is a single emoji.
No markdown fences, no preamble.`

const pickupLinePrompt = "Give me a cheesy, cute math-related pick-up line."

func equationPrompt(equation, result string) string {
	return fmt.Sprintf("The user just calculated %q. "+
		"Write a short, witty, romantic comment connecting the result to love, dating, "+
		"or how amazing the user is.", equation+" = "+result)
}

// errEmptyComment is returned when the model answered with valid JSON but no
// message.
var errEmptyComment = errors.New("empty comment")

// parseComment decodes a {"message","emoji"} object from model output,
// tolerating surrounding markdown fences.
func parseComment(raw string) (Comment, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var c Comment
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Comment{}, fmt.Errorf("parse comment JSON: %w (raw: %.200s)", err, raw)
	}

	c.Message = strings.TrimSpace(c.Message)
	c.Emoji = strings.TrimSpace(c.Emoji)
	c.Fallback = false
	if c.Message == "" {
		return Comment{}, errEmptyComment
	}
	return c, nil
}
