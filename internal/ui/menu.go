// internal/ui/menu.go

package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/moby/term"
)

// ErrMenuClosed is returned when the operator leaves the menu without
// picking an entry.
var ErrMenuClosed = errors.New("menu closed")

// MenuItem is one numbered entry of the main menu.
type MenuItem struct {
	Key   string
	Title string
}

// KeyMap definiuje skróty klawiszowe menu
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Quit  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// MenuModel is the bubbletea model of the main menu. The operator either
// moves the cursor or types the entry number.
type MenuModel struct {
	keys     KeyMap
	title    string
	items    []MenuItem
	cursor   int
	input    textinput.Model
	chosen   int
	status   string
	quitting bool
}

func NewMenuModel(title string, items []MenuItem) MenuModel {
	input := textinput.New()
	input.Placeholder = "number"
	input.CharLimit = 3
	input.Width = 10
	input.Focus()

	return MenuModel{
		keys:   DefaultKeyMap(),
		title:  title,
		items:  items,
		input:  input,
		chosen: -1,
	}
}

// Init implementuje tea.Model
func (m MenuModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			typed := strings.TrimSpace(m.input.Value())
			if typed == "" {
				m.chosen = m.cursor
				return m, tea.Quit
			}
			if idx := m.indexOf(typed); idx >= 0 {
				m.chosen = idx
				return m, tea.Quit
			}
			m.status = fmt.Sprintf("Invalid choice: %s", typed)
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m MenuModel) indexOf(k string) int {
	for i, item := range m.items {
		if item.Key == k {
			return i
		}
	}
	return -1
}

// View implementuje tea.Model
func (m MenuModel) View() string {
	if m.quitting || m.chosen >= 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n\n")
	for i, item := range m.items {
		line := fmt.Sprintf("%s. %s", item.Key, item.Title)
		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(ItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(InputStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(DescriptionStyle.Render("↑/↓ move • enter select • esc quit"))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.status))
	}

	return WindowStyle.Render(b.String())
}

// Choice returns the picked entry index, false when the menu was closed.
func (m MenuModel) Choice() (int, bool) {
	return m.chosen, m.chosen >= 0
}

// RunMenu shows the TUI menu and returns the index of the picked entry.
func RunMenu(title string, items []MenuItem, in io.Reader, out io.Writer) (int, error) {
	p := tea.NewProgram(NewMenuModel(title, items), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return -1, fmt.Errorf("menu failed: %w", err)
	}
	if idx, ok := final.(MenuModel).Choice(); ok {
		return idx, nil
	}
	return -1, ErrMenuClosed
}

// PromptMenu is the line based menu used when stdin is not a terminal.
// It returns -1 without error for an unknown entry.
func PromptMenu(c *Console, title string, items []MenuItem) (int, error) {
	width := GetMaxWidth([]string{title}) + 10
	fmt.Fprintln(c.Out())
	Banner(c.Out(), title, width)
	for _, item := range items {
		fmt.Fprintf(c.Out(), "%s. %s\n", item.Key, item.Title)
	}

	answer, err := c.Ask("Select an option: ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return -1, ErrMenuClosed
		}
		return -1, err
	}
	for i, item := range items {
		if item.Key == answer {
			return i, nil
		}
	}
	Warn(c.Out(), "Invalid choice: %s", answer)
	return -1, nil
}

// IsTerminal reports whether in is attached to a terminal.
func IsTerminal(in interface{}) bool {
	_, isTerminal := term.GetFdInfo(in)
	return isTerminal
}
