// Package printer writes human-readable command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/colonyops/tick/internal/core/styles"
)

type ctxKey struct{}

// Printer writes styled status lines.
type Printer struct {
	w io.Writer
}

// New returns a printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter stores p on the context.
func WithPrinter(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer on ctx, or one writing to stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stdout)
}

// Successf prints a line prefixed with a check mark.
func (p *Printer) Successf(format string, args ...any) {
	p.line(lipgloss.NewStyle().Foreground(styles.ColorSuccess), styles.IconCompleted, format, args...)
}

// Infof prints a line prefixed with an info marker.
func (p *Printer) Infof(format string, args ...any) {
	p.line(lipgloss.NewStyle().Foreground(styles.ColorSecondary), "•", format, args...)
}

// Warnf prints a line prefixed with a warning marker.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(lipgloss.NewStyle().Foreground(styles.ColorWarning), "!", format, args...)
}

// Section prints a bold heading.
func (p *Printer) Section(title string) {
	_, _ = lipgloss.Fprintln(p.w, styles.TitleStyle.Render(title))
}

// Errorf prints a line prefixed with a cross.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.ErrorStyle, styles.IconCancelled, format, args...)
}

// Printf prints an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) line(style lipgloss.Style, icon, format string, args ...any) {
	_, _ = lipgloss.Fprintln(p.w, style.Render(icon)+" "+fmt.Sprintf(format, args...))
}
