package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned by ParseKey for labels that are not on the keypad.
var ErrUnknownKey = errors.New("unknown key")

// ParseKey maps a keypad label to the Action it dispatches.
func ParseKey(key string) (Action, error) {
	k := strings.TrimSpace(key)

	if len(k) == 1 && isDigit(k[0]) {
		return AddDigit{Digit: k[0]}, nil
	}
	if op, ok := ParseOperation(k); ok {
		return ChooseOperation{Op: op}, nil
	}

	switch strings.ToLower(k) {
	case "ac", "c", "clear":
		return Clear{}, nil
	case "del", "backspace", "⌫":
		return Delete{}, nil
	case "=", "enter":
		return Evaluate{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Tokenize splits a line of keypad input into keys. Whitespace separates
// keys, and runs like "12+3=" are split into single-character keys so the
// line can be typed the way it reads.
func Tokenize(line string) []string {
	var keys []string
	for _, field := range strings.Fields(line) {
		if _, err := ParseKey(field); err == nil {
			keys = append(keys, field)
			continue
		}
		if isWord(field) {
			keys = append(keys, field)
			continue
		}
		for _, r := range field {
			keys = append(keys, string(r))
		}
	}
	return keys
}

func isWord(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
