package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type errMsg struct{ err error }

type loginOKMsg struct{ client *Client }

const (
	inputURL = iota
	inputUsername
	inputPassword
)

type LoginModel struct {
	Inputs   []textinput.Model
	FocusIdx int
	Err      error
	busy     bool
}

func NewLoginModel(baseURL string) LoginModel {
	inputs := make([]textinput.Model, 3)

	inputs[inputURL] = textinput.New()
	inputs[inputURL].Prompt = "Server: "
	inputs[inputURL].SetValue(baseURL)
	inputs[inputURL].Focus()
	inputs[inputURL].PromptStyle = focusedStyle

	inputs[inputUsername] = textinput.New()
	inputs[inputUsername].Placeholder = "username"
	inputs[inputUsername].Prompt = "Username: "
	inputs[inputUsername].CharLimit = 64

	inputs[inputPassword] = textinput.New()
	inputs[inputPassword].Placeholder = "password"
	inputs[inputPassword].Prompt = "Password: "
	inputs[inputPassword].EchoMode = textinput.EchoPassword

	return LoginModel{Inputs: inputs}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if m.FocusIdx == len(m.Inputs)-1 && !m.busy {
				m.busy = true
				m.Err = nil
				return m, m.loginCmd()
			}
			m.focus(m.FocusIdx + 1)
			return m, nil
		case tea.KeyTab, tea.KeyDown:
			m.focus(m.FocusIdx + 1)
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.focus(m.FocusIdx - 1)
			return m, nil
		}
	case errMsg:
		m.busy = false
		m.Err = msg.err
		return m, nil
	}

	cmds := make([]tea.Cmd, len(m.Inputs))
	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *LoginModel) focus(idx int) {
	n := len(m.Inputs)
	idx = (idx%n + n) % n
	m.Inputs[m.FocusIdx].Blur()
	m.Inputs[m.FocusIdx].PromptStyle = blurredStyle
	m.FocusIdx = idx
	m.Inputs[idx].Focus()
	m.Inputs[idx].PromptStyle = focusedStyle
}

func (m LoginModel) loginCmd() tea.Cmd {
	baseURL := strings.TrimSpace(m.Inputs[inputURL].Value())
	username := m.Inputs[inputUsername].Value()
	password := m.Inputs[inputPassword].Value()
	return func() tea.Msg {
		client := NewClient(baseURL)
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := client.Login(ctx, username, password); err != nil {
			return errMsg{err}
		}
		return loginOKMsg{client: client}
	}
}

func (m LoginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Post Board - Login") + "\n\n")
	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View())
		b.WriteRune('\n')
	}
	b.WriteString("\n")
	if m.busy {
		b.WriteString(blurredStyle.Render("Logging in..."))
	} else {
		b.WriteString(blurredStyle.Render("Tab to change fields, Enter to submit, Ctrl+C to quit"))
	}
	if m.Err != nil {
		b.WriteString("\n\n" + errorMessageStyle(m.Err.Error()))
	}
	return docStyle.Render(b.String())
}
