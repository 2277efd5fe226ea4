package deckcal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/deckcal/pkg/calibration"
	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/session"
)

// ContentRenderer transforms markdown before it is printed (e.g. to ANSI).
type ContentRenderer func(string) (string, error)

// Runner drives a calibration session interactively: it reads one command
// per line from Input and reports each resulting state on Output.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run reads commands until the session exits or Input is exhausted.
// Rejected commands are reported and the loop continues; any other error
// stops it. Blank lines and lines starting with '#' are skipped.
func (r *Runner) Run(ctx context.Context, deck *Deck, sessionID string) (*session.Session, error) {
	if r.Input == nil {
		return nil, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lines := bufio.NewScanner(r.Input)

	s, err := deck.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !r.Headless {
		fmt.Fprintf(r.Output, "--- deckcal session %s (%s) ---\n", s.ID, s.Workflow)
	}
	r.describe(deck, s)

	for s.State != string(calibration.StateSessionExited) {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		if !lines.Scan() {
			if err := lines.Err(); err != nil {
				return s, fmt.Errorf("input error: %w", err)
			}
			break
		}
		input := strings.TrimSpace(lines.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}

		next, err := deck.Send(ctx, s.ID, input)
		switch {
		case err == nil:
			s = next
			r.describe(deck, s)
		case errors.Is(err, domain.ErrIllegalTransition), errors.Is(err, domain.ErrInvalidArgument):
			fmt.Fprintf(r.Output, "rejected: %v\n", err)
		default:
			return s, err
		}
	}
	return s, nil
}

func (r *Runner) describe(deck *Deck, s *session.Session) {
	if r.Headless {
		fmt.Fprintln(r.Output, s.State)
		return
	}
	allowed, _ := deck.AllowedCommands(s)
	names := make([]string, len(allowed))
	for i, c := range allowed {
		names[i] = "`" + string(c) + "`"
	}
	msg := fmt.Sprintf("**%s**", s.State)
	if len(names) > 0 {
		msg += " (next: " + strings.Join(names, ", ") + ")"
	}
	if r.Renderer != nil {
		if rendered, err := r.Renderer(msg); err == nil {
			msg = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(msg))
}
