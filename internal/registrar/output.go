package registrar

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// progress writes human-readable registration steps. It is purely
// observational; nothing parses it.
type progress struct {
	w     io.Writer
	label lipgloss.Style
	value lipgloss.Style
	ok    lipgloss.Style
}

func newProgress(w io.Writer) *progress {
	// A renderer bound to w drops colors when w is not a terminal.
	r := lipgloss.NewRenderer(w)
	return &progress{
		w:     w,
		label: r.NewStyle().Foreground(lipgloss.Color("#888888")),
		value: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF")),
		ok:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00")),
	}
}

func (p *progress) field(label, value string) {
	fmt.Fprintf(p.w, "%s %s\n", p.label.Render(label), p.value.Render(value))
}

func (p *progress) done(label, value string) {
	fmt.Fprintf(p.w, "%s %s\n", p.ok.Render(label), p.value.Render(value))
}
