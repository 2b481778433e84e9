package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	crossarch "github.com/RunningShrimp/vm-sub002"
	"github.com/RunningShrimp/vm-sub002/arch"
	"github.com/RunningShrimp/vm-sub002/pattern"
)

// historySize is the number of lowered operations kept on screen.
const historySize = 12

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	patternStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	mappingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type entry struct {
	err     error
	input   string
	lowered crossarch.Lowered
}

type interactiveModel struct {
	unit    *crossarch.Unit
	input   textinput.Model
	history []entry
}

func newInteractiveModel(u *crossarch.Unit) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "add r0, r1, r2"
	ti.Prompt = "op> "
	ti.Width = 48
	ti.Focus()
	return &interactiveModel{unit: u, input: ti}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+r":
			m.unit.Reset()
			m.history = nil
			return m, nil

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.push(m.lower(text))
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) lower(text string) entry {
	e := entry{input: text}
	op, err := pattern.ParseOp(text)
	if err != nil {
		e.err = err
		return e
	}
	e.lowered, e.err = m.unit.Lower(op)
	return e
}

func (m *interactiveModel) push(e entry) {
	m.history = append(m.history, e)
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("xarch"))
	fmt.Fprintf(&b, " %s -> %s\n\n", m.unit.Source.Architecture(), m.unit.Target.Architecture())

	for _, e := range m.history {
		b.WriteString(opStyle.Render(e.input))
		if e.err != nil {
			b.WriteString("\n  ")
			b.WriteString(errorStyle.Render(e.err.Error()))
		} else {
			fmt.Fprintf(&b, "\n  %s  %s", e.lowered.Op, patternStyle.Render(e.lowered.Pattern.ID))
		}
		b.WriteString("\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.formatMappings())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter lower • ctrl+r reset unit • esc quit"))
	return b.String()
}

func (m *interactiveModel) formatMappings() string {
	mappings := m.unit.Mapper.Mappings()
	if len(mappings) == 0 {
		return helpStyle.Render("no registers mapped")
	}
	parts := make([]string, len(mappings))
	for i, mp := range mappings {
		src, _ := m.unit.Source.Register(mp.Source)
		dst, _ := m.unit.Target.Register(mp.Target)
		parts[i] = src.Name + "->" + dst.Name
	}
	return mappingStyle.Render(strings.Join(parts, "  "))
}

func runInteractive(source, target arch.Architecture) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	u, err := crossarch.NewUnit(source, target)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newInteractiveModel(u), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
