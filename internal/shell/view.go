package shell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/commandflow/internal/errors"
)

var (
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle    = lipgloss.NewStyle()
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func styleFor(t errors.MessageType) lipgloss.Style {
	switch t {
	case errors.MessageTypeError:
		return errorStyle
	case errors.MessageTypeWarning:
		return warningStyle
	case errors.MessageTypeInfo:
		return infoStyle
	default:
		return successStyle
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	for _, msg := range m.handler.GetAll() {
		b.WriteString(styleFor(msg.Type).Render(msg.Text))
		b.WriteByte('\n')
	}
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	if len(m.suggestions) > 0 {
		b.WriteString(suggestionStyle.Render(strings.Join(m.suggestions, "  ")))
		b.WriteByte('\n')
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
