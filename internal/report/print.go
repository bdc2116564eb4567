// internal/report/print.go
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"ticket-classifier/internal/models"
)

const (
	summaryTitle = "--- Summary (terminal) ---"
	summaryRule  = "-------------------------"
)

// PrintSummary writes category counts, largest first, framed by a header and rule.
// Styling is dropped when out is not a terminal.
func PrintSummary(out io.Writer, s models.Summary) {
	r := lipgloss.NewRenderer(out)
	header := r.NewStyle().Bold(true)
	count := r.NewStyle().Foreground(lipgloss.Color("6"))
	others := r.NewStyle().Foreground(lipgloss.Color("3"))

	fmt.Fprintln(out)
	fmt.Fprintln(out, header.Render(summaryTitle))
	for _, c := range s.CountsPerCategory.Ranked() {
		style := count
		if c.Category == models.FallbackCategory {
			style = others
		}
		fmt.Fprintf(out, "%s: %s\n", c.Category, style.Render(fmt.Sprint(c.Count)))
	}
	fmt.Fprintln(out, summaryRule)
	fmt.Fprintln(out)
}
