package playground

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rx3lixir/termkit/internal/lib/colors"
)

const sample = "{success.bold ✔ Deployed} {dim in} {bold.cyan 1.2s}"

// model TUI для предпросмотра шаблонов
type model struct {
	ti       textinput.Model
	colors   *colors.Colorizer
	quitting bool
}

func newModel(c *colors.Colorizer) model {
	ti := textinput.New()
	ti.Prompt = " › "
	ti.Placeholder = "{error.bold failed} {dim after} {bold 3} retries"
	ti.CharLimit = 4096
	ti.SetValue(sample)
	ti.Focus()
	return model{ti: ti, colors: c}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyCtrlU:
			m.ti.SetValue("")
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m model) preview() string {
	if strings.TrimSpace(m.ti.Value()) == "" {
		return m.colors.MustRender("{dim (empty)}")
	}
	out, err := m.colors.Render(m.ti.Value())
	if err != nil {
		return m.colors.MustSprintf("{error %s}", err)
	}
	return out
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n  " + m.colors.MustRender("{bold Colour template playground}") + "\n\n")
	b.WriteString(m.ti.View() + "\n\n")
	b.WriteString("   " + m.preview() + "\n\n")
	b.WriteString(m.colors.MustRender("{dim   Ctrl+U clear · Esc quit}") + "\n")
	return b.String()
}

// Run запускает предпросмотр на out, пока пользователь не выйдет.
func Run(c *colors.Colorizer, out io.Writer) error {
	p := tea.NewProgram(newModel(c), tea.WithOutput(out), tea.WithInput(os.Stdin))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run playground: %w", err)
	}
	return nil
}
