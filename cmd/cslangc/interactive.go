package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrShadowKiller/c-slang/ir"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// browserModel is the Processor's equivalent of the teacher's component
// browser (cmd/run -i): instead of instantiating and calling a WASM
// component, it lets a reviewer page through a produced ir.Root — its
// functions, data segment, and recognized external imports. Pressing "/"
// while "Functions" is selected opens a filter field; what is typed there
// filters the list by substring.
type browserModel struct {
	root     *ir.Root
	sections []string
	selected int
	filter   textinput.Model
}

func newBrowserModel(root *ir.Root) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "filter by name"
	ti.Prompt = "/ "
	ti.Width = 30
	return &browserModel{
		root:     root,
		sections: []string{"Functions", "Data segment", "External imports", "Function table"},
		filter:   ti,
	}
}

func (m *browserModel) Init() tea.Cmd { return nil }

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filter.Focused() {
		switch keyMsg.String() {
		case "esc", "enter":
			m.filter.Blur()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.sections)-1 {
			m.selected++
		}
	case "/":
		if m.sections[m.selected] == "Functions" {
			m.filter.Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("cslangc"))
	b.WriteString(" processed IR\n\n")

	for i, s := range m.sections {
		cursor := "  "
		line := s
		if i == m.selected {
			cursor = "> "
			line = selectedStyle.Render(cursor + s)
		} else {
			line = cursor + s
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.sections[m.selected] == "Functions" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • / filter functions • q quit"))
	return b.String()
}

func (m *browserModel) detail() string {
	switch m.sections[m.selected] {
	case "Functions":
		if len(m.root.Functions) == 0 {
			return "(no functions)"
		}
		var b strings.Builder
		for _, fn := range m.root.Functions {
			if q := m.filter.Value(); q != "" && !strings.Contains(fn.Name, q) {
				continue
			}
			b.WriteString(funcStyle.Render(fn.Name))
			b.WriteString(formatParams(fn.Parameters))
			b.WriteString(" -> ")
			b.WriteString(typeStyle.Render(fn.ReturnType.String()))
			b.WriteString(fmt.Sprintf("  [%d local byte(s), %d statement(s)]\n", fn.SizeOfLocals, len(fn.Body)))
		}
		return b.String()

	case "Data segment":
		return fmt.Sprintf("%d byte(s): %s", m.root.DataSegmentSizeInBytes, m.root.DataSegmentByteStr)

	case "External imports":
		if len(m.root.ExternalFunctions) == 0 {
			return "(none referenced)"
		}
		var b strings.Builder
		for name, ext := range m.root.ExternalFunctions {
			b.WriteString(fmt.Sprintf("%s.%s: %s\n", ext.ModuleName, name, ext.Type.String()))
		}
		return b.String()

	case "Function table":
		if len(m.root.FunctionTable) == 0 {
			return "(no indirect references)"
		}
		var b strings.Builder
		for i, name := range m.root.FunctionTable {
			b.WriteString(fmt.Sprintf("[%d] %s\n", i, name))
		}
		return b.String()
	}
	return ""
}

func formatParams(params []ir.ParamLayout) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func runInteractive(root *ir.Root) error {
	p := tea.NewProgram(newBrowserModel(root), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
