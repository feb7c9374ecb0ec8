package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/osrm-go/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	serviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type serviceInfo struct {
	name  string
	input string // what the text field holds
	hint  string
}

var services = []serviceInfo{
	{"nearest", "coords", "lon,lat"},
	{"route", "coords", "lon,lat;lon,lat;..."},
	{"table", "coords", "lon,lat;lon,lat;..."},
	{"match", "coords", "lon,lat;lon,lat;... (GPS trace)"},
	{"trip", "coords", "lon,lat;lon,lat;..."},
	{"tile", "tile", "x,y,z"},
}

type modelState int

const (
	stateSelectService modelState = iota
	stateInput
	stateShowResult
)

type interactiveModel struct {
	err      error
	eng      *engine.Engine
	opts     options
	result   string
	input    textinput.Model
	selected int
	state    modelState
}

type queryResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(eng *engine.Engine, o options) *interactiveModel {
	return &interactiveModel{eng: eng, opts: o, state: stateSelectService}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInput {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectService && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectService && m.selected < len(services)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectService:
				m.prepareInput()
				m.state = stateInput
				return m, textinput.Blink
			case stateInput:
				return m, m.runQuery(m.input.Value())
			case stateShowResult:
				m.state = stateSelectService
				m.result = ""
				m.err = nil
			}
			return m, nil

		case "esc":
			if m.state != stateSelectService {
				m.state = stateSelectService
				m.result = ""
				m.err = nil
			}
			return m, nil
		}

	case queryResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) prepareInput() {
	s := services[m.selected]
	ti := textinput.New()
	ti.Placeholder = s.hint
	ti.Prompt = s.input + ": "
	ti.Width = 60
	switch s.input {
	case "tile":
		ti.SetValue(m.opts.tile)
	default:
		ti.SetValue(m.opts.coords)
	}
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) runQuery(value string) tea.Cmd {
	s := services[m.selected]
	o := m.opts
	return func() tea.Msg {
		coords := o.coords
		if s.input == "tile" {
			o.tile = value
		} else {
			coords = value
		}
		res, err := query(context.Background(), m.eng, o, s.name, coords)
		if err != nil {
			return queryResultMsg{err: err}
		}
		var b strings.Builder
		if err := printResult(&b, res, o); err != nil {
			return queryResultMsg{err: err}
		}
		return queryResultMsg{result: b.String()}
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("OSRM"))
	b.WriteString(" ")
	b.WriteString(m.opts.data)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectService:
		b.WriteString("Select a service:\n\n")
		for i, s := range services {
			line := s.name + " " + hintStyle.Render("("+s.hint+")")
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + s.name))
				b.WriteString(" " + hintStyle.Render("("+s.hint+")"))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInput:
		b.WriteString(fmt.Sprintf("Query %s\n\n", serviceStyle.Render(services[m.selected].name)))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", serviceStyle.Render(services[m.selected].name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(eng *engine.Engine, o options) error {
	p := tea.NewProgram(newInteractiveModel(eng, o), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
