package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
)

// actionSelectModel is the bubbletea model for picking one proxy action
type actionSelectModel struct {
	actions  []domain.ProxyAction
	cursor   int
	title    string
	done     bool
	canceled bool
}

func initialActionSelectModel(actions []domain.ProxyAction, title string) actionSelectModel {
	items := make([]domain.ProxyAction, len(actions))
	copy(items, actions)
	return actionSelectModel{
		actions: items,
		title:   title,
	}
}

// Init is the initial command for bubbletea
func (m actionSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m actionSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.canceled = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.actions)-1 {
				m.cursor++
			}
		case "enter", " ":
			for i := range m.actions {
				m.actions[i].Active = i == m.cursor
			}
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the UI
func (m actionSelectModel) View() string {
	if m.done || m.canceled {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, action := range m.actions {
		cursor := " "
		marker := color.New(color.FgWhite).Sprint("○")
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
			marker = color.New(color.FgGreen).Sprint("●")
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, marker, action.Title))
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Enter: select  q: quit\n"))

	return b.String()
}

// selected returns the action marked active
func (m actionSelectModel) selected() (domain.ProxyAction, bool) {
	for _, action := range m.actions {
		if action.Active {
			return action, true
		}
	}
	return domain.ProxyAction{}, false
}

// SelectAction lets the user pick one of a contract's proxy actions
func SelectAction(actions []domain.ProxyAction, title string) (domain.ProxyAction, error) {
	if len(actions) == 0 {
		return domain.ProxyAction{}, fmt.Errorf("no actions to select")
	}

	p := tea.NewProgram(initialActionSelectModel(actions, title))
	finalModel, err := p.Run()
	if err != nil {
		return domain.ProxyAction{}, fmt.Errorf("action selection failed: %w", err)
	}

	m := finalModel.(actionSelectModel)
	action, ok := m.selected()
	if m.canceled || !ok {
		return domain.ProxyAction{}, fmt.Errorf("selection cancelled")
	}
	return action, nil
}
