package projector

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Console writes surfaces as styled status lines, for hosts without a desktop.
type Console struct {
	mu     sync.Mutex
	writer io.Writer
	last   string
}

// NewConsole creates a console backend writing to writer.
func NewConsole(writer io.Writer) *Console {
	return &Console{writer: writer}
}

// Show writes the surface when its text changed since the previous write.
func (console *Console) Show(surface Surface) error {
	line := console.format(surface)

	console.mu.Lock()
	defer console.mu.Unlock()
	if line == console.last {
		return nil
	}
	console.last = line
	_, err := fmt.Fprintln(console.writer, line)
	return err
}

// Remove writes a removal marker.
func (console *Console) Remove(id int) error {
	console.mu.Lock()
	defer console.mu.Unlock()
	console.last = ""
	_, err := fmt.Fprintf(console.writer, "[%d] removed\n", id)
	return err
}

func (console *Console) format(surface Surface) string {
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(HexColor(surface.Accent)))
	title := accent.Bold(true).Render(surface.Title)
	muted := lipgloss.NewStyle().Faint(true)

	parts := []string{
		fmt.Sprintf("[%d]", surface.ID),
		title,
		surface.Text,
		muted.Render(surface.SubText),
	}
	if len(surface.Buttons) > 0 {
		labels := make([]string, 0, len(surface.Buttons))
		for _, button := range surface.Buttons {
			labels = append(labels, "["+ButtonLabel(button)+"]")
		}
		parts = append(parts, strings.Join(labels, " "))
	}
	return strings.Join(parts, " | ")
}
