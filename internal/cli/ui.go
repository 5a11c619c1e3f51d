package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorDim   = lipgloss.Color("240")
)

// styles renders for one writer, so output to a pipe or buffer stays plain.
type styles struct {
	repo, name, version, installed, label lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		repo:      r.NewStyle().Foreground(colorCyan),
		name:      r.NewStyle().Bold(true),
		version:   r.NewStyle().Foreground(colorGreen),
		installed: r.NewStyle().Foreground(colorDim),
		label:     r.NewStyle().Bold(true),
	}
}

const labelWidth = 16

// field prints one "Label : value" line of package details.
func (s styles) field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s: %s\n", s.label.Render(fmt.Sprintf("%-*s", labelWidth, label)), value)
}

// joinOrNone joins values with two spaces, or returns "None".
func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, "  ")
}

// humanSize formats n bytes with binary units and two decimals.
func humanSize(n int64) string {
	units := []string{"B", "KiB", "MiB", "GiB", "TiB"}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, units[i])
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "None"
	}
	return t.UTC().Format(time.RFC1123)
}
