package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"crush-calc/internal/calculator"
	"crush-calc/internal/observability"
	"crush-calc/internal/session"
)

func NewEvalCommand() *cobra.Command {
	var (
		withComment bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "eval [keys...]",
		Short: "Press a sequence of keys and print the display",
		Long: `Press a sequence of keys and print the resulting display.

Keys may be separated by spaces or typed together, e.g.

  crushcalc eval "12+3*2="
  crushcalc eval 9 DEL 8 / 2 =`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := newCommentary(cmd.Context())
			if err != nil {
				return err
			}

			s := session.New("cli", svc, session.Options{
				CommentaryTimeout: cfg.CommentaryTimeout,
				Logger:            observability.Logger,
			})
			defer s.Close()

			keys := calculator.Tokenize(strings.Join(args, " "))
			snap, err := s.PressAll(context.Background(), keys)
			if err != nil {
				return err
			}

			if withComment {
				s.Wait()
				snap = s.Snapshot()
			}

			out := cmd.OutOrStdout()
			if asJSON {
				b, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode snapshot: %w", err)
				}
				fmt.Fprintln(out, string(b))
				return nil
			}

			renderState(out, snap)
			if withComment {
				renderDisplay(out, snap.Display)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withComment, "comment", "c", false, "wait for and print the comment on the result")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the session snapshot as JSON")

	return cmd
}
