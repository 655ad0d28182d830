// Package presenter holds dialogue presenters that do not need storage.
package presenter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/at-ishikawa/dialogfix/internal/dialogue"
)

// Terminal prints presentations, one line each.
type Terminal struct {
	out         io.Writer
	showPending bool

	mu      sync.Mutex
	id      *color.Color
	name    *color.Color
	pending *color.Color
	failed  *color.Color
}

// NewTerminal creates a terminal presenter. Pending presentations are only
// printed when showPending is set.
func NewTerminal(out io.Writer, showPending bool) *Terminal {
	return &Terminal{
		out:         out,
		showPending: showPending,
		id:          color.New(color.Faint),
		name:        color.New(color.Bold, color.FgCyan),
		pending:     color.New(color.Italic, color.FgYellow),
		failed:      color.New(color.FgRed),
	}
}

func (t *Terminal) Present(_ context.Context, p dialogue.Presentation) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch p.Status {
	case dialogue.StatusPending:
		if !t.showPending {
			return nil
		}
		if _, err := t.id.Fprintf(t.out, "[%s] ", p.Line.ID); err != nil {
			return fmt.Errorf("id.Fprintf > %w", err)
		}
		if _, err := t.pending.Fprintln(t.out, "..."); err != nil {
			return fmt.Errorf("pending.Fprintln > %w", err)
		}
	case dialogue.StatusFailed:
		if _, err := t.id.Fprintf(t.out, "[%s] ", p.Line.ID); err != nil {
			return fmt.Errorf("id.Fprintf > %w", err)
		}
		if _, err := t.failed.Fprintln(t.out, p.Text); err != nil {
			return fmt.Errorf("failed.Fprintln > %w", err)
		}
	default:
		if _, err := t.id.Fprintf(t.out, "[%s] ", p.Line.ID); err != nil {
			return fmt.Errorf("id.Fprintf > %w", err)
		}
		if p.Name != "" {
			if _, err := t.name.Fprintf(t.out, "%s: ", p.Name); err != nil {
				return fmt.Errorf("name.Fprintf > %w", err)
			}
		}
		if _, err := fmt.Fprintln(t.out, p.Text); err != nil {
			return fmt.Errorf("fmt.Fprintln > %w", err)
		}
	}
	return nil
}

// Multi sends every presentation to each presenter in order. All presenters
// are called even when one fails.
type Multi []dialogue.Presenter

func (m Multi) Present(ctx context.Context, p dialogue.Presentation) error {
	var errs []error
	for _, presenter := range m {
		if err := presenter.Present(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
