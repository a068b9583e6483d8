package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type askMsg struct {
	q     Question
	reply func(string, error)
}

type quitMsg struct{}

type answered struct {
	prompt string
	answer string
}

// tuiPrompter hosts a Bubble Tea program and forwards questions to it. The
// questionnaire computation suspends between Ask calls; the program's event
// loop resumes it whenever the user submits an answer.
type tuiPrompter struct {
	prog *tea.Program
	done chan struct{}
}

func newTUIPrompter(title string) *tuiPrompter {
	p := &tuiPrompter{done: make(chan struct{})}
	p.prog = tea.NewProgram(newWizardModel(title), tea.WithOutput(os.Stdout))
	go func() {
		defer close(p.done)
		_, _ = p.prog.Run()
	}()
	return p
}

func (p *tuiPrompter) Ask(q Question, reply func(string, error)) {
	select {
	case <-p.done:
		// The program is gone; unblock the questionnaire instead of
		// leaving it suspended forever.
		go reply("", errAborted)
	default:
		p.prog.Send(askMsg{q: q, reply: reply})
	}
}

func (p *tuiPrompter) Close() {
	p.prog.Send(quitMsg{})
	<-p.done
}

type wizardModel struct {
	title   string
	spinner spinner.Model
	input   textinput.Model
	history []answered
	current *askMsg
	width   int
	done    bool
}

func newWizardModel(title string) *wizardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 48

	return &wizardModel{
		title:   title,
		spinner: sp,
		input:   ti,
		width:   80,
	}
}

func (m *wizardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

func (m *wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case askMsg:
		m.current = &msg
		m.input.SetValue("")
		m.input.Placeholder = msg.q.Default
		m.input.Focus()
		return m, nil

	case quitMsg:
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if cur := m.current; cur != nil {
				m.current = nil
				go cur.reply("", errAborted)
			}
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			if cur := m.current; cur != nil {
				value := strings.TrimSpace(m.input.Value())
				shown := value
				if shown == "" {
					shown = cur.q.Default
				}
				m.history = append(m.history, answered{prompt: cur.q.Prompt, answer: shown})
				m.current = nil
				m.input.Blur()
				// Resume off the event loop so the UI keeps rendering
				// while the questionnaire advances.
				go cur.reply(value, nil)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.input.Width = min(m.width-8, 64)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *wizardModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	answerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	helpStyle := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), m.title)))
	b.WriteString("\n\n")

	for _, h := range m.history {
		b.WriteString(fmt.Sprintf("  %s %s\n", h.prompt+":", answerStyle.Render(h.answer)))
	}

	if m.current != nil {
		b.WriteString(fmt.Sprintf("  %s %s\n", promptStyle.Render(m.current.q.Prompt+":"), m.input.View()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter accept • esc abort"))
	b.WriteString("\n")
	return b.String()
}
