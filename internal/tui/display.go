package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/usermgr/internal/directory"
)

// Browser presents a directory to the operator.
type Browser interface {
	Run(ctx context.Context) error
}

// BrowserOptions configures browser creation.
type BrowserOptions struct {
	Writer     io.Writer            // Output destination (default: os.Stdout).
	ForcePlain bool                 // Force plain text even if TTY.
	Directory  *directory.Directory // Records to show.
	Source     string               // Where the records came from, shown in the title.
}

// NewBrowser returns a TUI browser when the writer is a TTY, or a plain text
// listing otherwise. ForcePlain overrides TTY detection.
func NewBrowser(opts BrowserOptions) Browser {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Directory == nil {
		opts.Directory = directory.New()
	}

	if opts.ForcePlain || !IsTTY(opts.Writer) {
		return &PlainBrowser{w: opts.Writer, dir: opts.Directory}
	}

	return &TUIBrowser{w: opts.Writer, dir: opts.Directory, source: opts.Source}
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainBrowser prints every record once in insertion order.
type PlainBrowser struct {
	w   io.Writer
	dir *directory.Directory
}

// Run writes the listing and returns.
func (b *PlainBrowser) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records := b.dir.List()
	if len(records) == 0 {
		_, _ = fmt.Fprintln(b.w, "NO USERS HERE!")
		return nil
	}
	for _, r := range records {
		_, _ = fmt.Fprintln(b.w, r)
	}
	return nil
}

// TUIBrowser runs the interactive Bubble Tea browser.
// Falls back to PlainBrowser if the TUI program fails to start.
type TUIBrowser struct {
	w      io.Writer
	dir    *directory.Directory
	source string
}

// Run starts the Bubble Tea program and blocks until the operator quits
// or ctx is cancelled.
func (b *TUIBrowser) Run(ctx context.Context) error {
	p := tea.NewProgram(NewModel(b.dir, b.source),
		tea.WithOutput(b.w),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		plain := &PlainBrowser{w: b.w, dir: b.dir}
		return plain.Run(ctx)
	}
	return nil
}
