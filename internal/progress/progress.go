// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package progress draws a single-line transfer progress bar on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

const (
	defaultWidth = 40
	// reserved is the room left on the line for the label and byte counts.
	reserved = 40
)

var labelStyle = lipgloss.NewStyle().Bold(true)

// Bar renders (sent, total) updates in place. It is inert when its writer
// is not a terminal, so callers can always install it.
type Bar struct {
	w       io.Writer
	label   string
	model   progress.Model
	enabled bool
	// pct is the last drawn whole percent; -1 before the first draw.
	pct  int
	done bool
}

// Option customizes a Bar.
type Option func(*Bar)

// WithForce draws even when w is not a terminal.
func WithForce(force bool) Option {
	return func(b *Bar) {
		if force {
			b.enabled = true
		}
	}
}

// WithWidth sets the bar width in cells.
func WithWidth(width int) Option {
	return func(b *Bar) { b.model.Width = width }
}

// New returns a Bar writing to w, usually os.Stderr.
func New(w io.Writer, label string, opts ...Option) *Bar {
	b := &Bar{
		w:     w,
		label: label,
		model: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		pct:   -1,
	}
	b.model.Width = defaultWidth

	if fd, ok := IsTerminal(w); ok {
		b.enabled = true
		if cols, _, err := term.GetSize(fd); err == nil && cols-reserved < defaultWidth {
			b.model.Width = max(cols-reserved, 10)
		}
	}

	for _, opt := range opts {
		opt(b)
	}
	return b
}

// IsTerminal reports whether w is an *os.File attached to a terminal and
// returns its descriptor.
func IsTerminal(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

// Update redraws the bar. Its signature matches transfer.ProgressFunc.
// Redraws happen only when the whole percentage changes.
func (b *Bar) Update(sent, total int64) {
	if !b.enabled || b.done {
		return
	}

	pct := 100
	if total > 0 {
		pct = int(sent * 100 / total)
	}
	if pct == b.pct {
		return
	}
	b.pct = pct

	fmt.Fprintf(b.w, "\r%s %s %3d%% %s/%s",
		labelStyle.Render(b.label),
		b.model.ViewAs(float64(pct)/100),
		pct,
		humanize.Bytes(uint64(max(sent, 0))),
		humanize.Bytes(uint64(max(total, 0))))
}

// Done ends the line if anything was drawn. Further updates are ignored.
func (b *Bar) Done() {
	if b.done {
		return
	}
	b.done = true
	if b.enabled && b.pct >= 0 {
		fmt.Fprintln(b.w)
	}
}
