package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/homepage/internal/models"
)

// TerminalStyles holds the lipgloss styles used for terminal output.
type TerminalStyles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Stars  lipgloss.Style
	Muted  lipgloss.Style
}

// DefaultTerminalStyles returns the styles used by the books command.
func DefaultTerminalStyles() TerminalStyles {
	return TerminalStyles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Cell:   lipgloss.NewStyle().Padding(0, 1),
		Stars:  lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#FFC107")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d")),
	}
}

// BookTable renders records as an aligned table, one row per record in order.
func BookTable(title string, records []models.BookRecord, styles TerminalStyles) string {
	headers := []string{"Title", "Author", "Status", "Rating", "Date"}
	rows := make([][]string, len(records))
	for i, b := range records {
		item := Book(b)
		rows[i] = []string{item.Title, item.Author, item.Status, item.Filled + item.Empty, item.Month}
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	// Width includes the horizontal padding.
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	if title != "" {
		sb.WriteString(styles.Title.Render(title))
		sb.WriteString("\n")
	}
	sep := styles.Muted.Render("|")
	for i, h := range headers {
		sb.WriteString(styles.Header.Width(widths[i]).Render(h))
		if i < len(headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")

	total := len(headers) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	if len(rows) == 0 {
		sb.WriteString(styles.Muted.Render("(no books)"))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, row := range rows {
		for i, cell := range row {
			style := styles.Cell
			if i == 3 {
				style = styles.Stars
			}
			sb.WriteString(style.Width(widths[i]).Render(cell))
			if i < len(row)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
