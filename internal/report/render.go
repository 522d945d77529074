package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner frames the report.
var Banner = strings.Repeat("=", 50)

var warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

// RenderOption customises Render.
type RenderOption func(o *renderOpts)

type renderOpts struct {
	styled bool
}

// WithStyles colours warning lines. Only meant for terminals.
func WithStyles(styled bool) RenderOption {
	return func(o *renderOpts) {
		o.styled = styled
	}
}

// Render writes the report for s to w.
func Render(w io.Writer, s Summary, opts ...RenderOption) error {
	o := renderOpts{}
	for _, opt := range opts {
		opt(&o)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\nTASK ANALYSIS REPORT\n%s\n\n", Banner, Banner)
	fmt.Fprintf(&b, "Total de tareas: %d\n", s.Total)

	if s.Total == 0 {
		b.WriteString("\n   No hay tareas registradas aún.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if next, ok := s.Next(); ok {
		b.WriteString("\nPróximo vencimiento:\n")
		fmt.Fprintf(&b, "   Tarea: %s\n", next.Title)
		fmt.Fprintf(&b, "   Fecha: %s\n", next.Due.Format("02/01/2006"))
		fmt.Fprintf(&b, "   %s\n", deadlineMessage(s.Deadline, o.styled))
	} else {
		b.WriteString("\nPróximo vencimiento: Sin fechas programadas\n")
	}

	fmt.Fprintf(&b, "\nTareas con fecha límite: %d de %d\n", s.WithDue, s.Total)
	fmt.Fprintf(&b, "\n%s\n\n", Banner)

	_, err := io.WriteString(w, b.String())
	return err
}

// deadlineMessage returns the countdown line without its indentation.
func deadlineMessage(d Deadline, styled bool) string {
	var msg string
	warning := true

	switch d.Kind {
	case DeadlineMinutes:
		msg = fmt.Sprintf("ADVERTENCIA: Vence en %d minutos!", d.Minutes)
	case DeadlineHoursMinutes:
		msg = fmt.Sprintf("ADVERTENCIA: Vence en %dh %dmin!", d.Hours, d.Minutes)
	case DeadlineHours:
		msg = fmt.Sprintf("ADVERTENCIA: Vence en %d horas!", d.Hours)
	case DeadlineTomorrow:
		msg = "ADVERTENCIA: Vence mañana"
	default:
		msg = fmt.Sprintf("En %d días", d.Days)
		warning = false
	}

	if styled && warning {
		return warningStyle.Render(msg)
	}
	return msg
}
