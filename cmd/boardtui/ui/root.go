package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const requestTimeout = 15 * time.Second

type state int

const (
	stateLogin state = iota
	stateBoard
)

type RootModel struct {
	State   state
	BaseURL string
	Login   LoginModel
	Board   BoardModel
	height  int
}

func NewRootModel(baseURL string) RootModel {
	return RootModel{
		State:   stateLogin,
		BaseURL: baseURL,
		Login:   NewLoginModel(baseURL),
	}
}

func (m RootModel) Init() tea.Cmd {
	return m.Login.Init()
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		if m.State == stateBoard {
			m.Board.Table.SetHeight(max(msg.Height-10, 5))
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case loginOKMsg:
		m.State = stateBoard
		m.Board = NewBoardModel(msg.client, m.height)
		return m, m.Board.Init()
	case loggedOutMsg:
		m.State = stateLogin
		m.Login = NewLoginModel(m.BaseURL)
		return m, m.Login.Init()
	}

	var cmd tea.Cmd
	switch m.State {
	case stateLogin:
		m.Login, cmd = m.Login.Update(msg)
	case stateBoard:
		m.Board, cmd = m.Board.Update(msg)
	}
	return m, cmd
}

func (m RootModel) View() string {
	if m.State == stateBoard {
		return m.Board.View()
	}
	return m.Login.View()
}
