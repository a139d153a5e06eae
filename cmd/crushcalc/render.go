package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"crush-calc/internal/commentary"
	"crush-calc/internal/session"
)

var (
	dim      = color.New(color.Faint)
	bold     = color.New(color.Bold)
	pink     = color.New(color.FgHiMagenta)
	thinking = color.New(color.Italic, color.FgYellow)
	red      = color.New(color.FgRed)
)

// renderState prints the two-line calculator display: the pending operand
// and operator, then the current entry.
func renderState(w io.Writer, snap session.Snapshot) {
	st := snap.State

	var top strings.Builder
	if st.PreviousOperand != "" {
		top.WriteString(st.PreviousOperand)
	}
	if st.Operation != "" {
		if top.Len() > 0 {
			top.WriteByte(' ')
		}
		top.WriteString(string(st.Operation))
	}

	current := st.CurrentOperand
	if current == "" {
		current = "0"
	}

	fmt.Fprintf(w, "  %s\n", dim.Sprint(top.String()))
	fmt.Fprintf(w, "  %s\n", bold.Sprint(current))
}

// renderDisplay prints the comment area; it prints nothing when the display
// is empty.
func renderDisplay(w io.Writer, d session.Display) {
	switch {
	case d.Thinking:
		fmt.Fprintf(w, "  %s\n", thinking.Sprint("Thinking of you..."))
	case d.Comment != nil:
		renderComment(w, *d.Comment)
	}
}

func renderComment(w io.Writer, c commentary.Comment) {
	line := c.Message
	if c.Emoji != "" {
		line += " " + c.Emoji
	}
	fmt.Fprintf(w, "  %s\n", pink.Sprint(line))
}
