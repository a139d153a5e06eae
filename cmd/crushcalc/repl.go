package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"crush-calc/internal/calculator"
	"crush-calc/internal/events"
	"crush-calc/internal/observability"
	"crush-calc/internal/session"
)

const replHelp = `Type keys and press enter, e.g. "12+3=" or "AC".
  flirt   ask for a pick-up line
  help    show this help
  quit    exit`

func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive calculator",
		Long: `Start an interactive calculator.

Each line is split into keys and pressed in order. Comments arrive in the
background and are printed when they are ready; a newer result replaces a
comment that has not arrived yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cfg, err := newCommentary(cmd.Context())
			if err != nil {
				return err
			}

			s := session.New("repl", svc, session.Options{
				CommentaryTimeout: cfg.CommentaryTimeout,
				Logger:            observability.Logger,
			})

			return runRepl(cmd.Context(), s, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// lockedWriter serialises output from the input loop and the comment printer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func runRepl(ctx context.Context, s *session.Session, in io.Reader, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := &lockedWriter{w: w}

	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	ch := s.Subscribe()
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for ev := range ch {
			if ev.Name != events.Comment {
				continue
			}
			payload, err := events.DecodeAs[session.CommentEvent](ev)
			if err != nil || payload.Display.Thinking || payload.Display.Comment == nil {
				continue
			}
			renderComment(out, *payload.Display.Comment)
		}
	}()

	if interactive {
		fmt.Fprintln(out, replHelp)
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return finishRepl(s, printed, nil)
		case "help", "?":
			fmt.Fprintln(out, replHelp)
			continue
		case "flirt", "pickup":
			renderDisplay(out, s.PickupLine(ctx).Display)
			continue
		}

		snap, err := s.PressAll(ctx, calculator.Tokenize(line))
		if err != nil {
			fmt.Fprintf(out, "  %s\n", red.Sprint(err))
			continue
		}
		renderState(out, snap)
		if snap.Display.Thinking {
			renderDisplay(out, snap.Display)
		}
	}

	return finishRepl(s, printed, scanner.Err())
}

// finishRepl lets the latest comment arrive, then closes the session and
// waits for the printer to drain.
func finishRepl(s *session.Session, printed <-chan struct{}, err error) error {
	s.Wait()
	s.Close()
	<-printed
	return err
}
