package ui

import (
	"context"
	"errors"
	"fmt"
	"postboard/backend/app/dto"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type boardMsg struct{ board *dto.BoardResponse }

type loggedOutMsg struct{}

type BoardModel struct {
	Client *Client
	Table  table.Model
	Board  *dto.BoardResponse
	Err    error
}

func NewBoardModel(c *Client, height int) BoardModel {
	columns := []table.Column{
		{Title: "Title", Width: 30},
		{Title: "Author", Width: 20},
		{Title: "Posted", Width: 17},
		{Title: "Image", Width: 28},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height-10, 5)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BoardModel{Client: c, Table: t}
}

func (m BoardModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m BoardModel) refreshCmd() tea.Cmd {
	c := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		board, err := c.Board(ctx)
		if err != nil {
			return errMsg{err}
		}
		return boardMsg{board: board}
	}
}

func (m BoardModel) logoutCmd() tea.Cmd {
	c := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := c.Logout(ctx); err != nil {
			return errMsg{err}
		}
		return loggedOutMsg{}
	}
}

func (m BoardModel) Update(msg tea.Msg) (BoardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.refreshCmd()
		case "l":
			return m, m.logoutCmd()
		case "q":
			return m, tea.Quit
		}
	case boardMsg:
		m.Err = nil
		m.Board = msg.board
		m.Table.SetRows(postRows(msg.board.Posts))
		return m, nil
	case errMsg:
		if errors.Is(msg.err, ErrNotLoggedIn) {
			return m, func() tea.Msg { return loggedOutMsg{} }
		}
		m.Err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func postRows(posts []dto.PostResponse) []table.Row {
	rows := make([]table.Row, 0, len(posts))
	for _, p := range posts {
		image := p.Image
		if image == "" {
			image = "-"
		}
		rows = append(rows, table.Row{p.Title, p.Author, p.CreatedAt.Local().Format("2006-01-02 15:04"), image})
	}
	return rows
}

func (m BoardModel) View() string {
	var b strings.Builder
	header := "Post Board"
	if m.Board != nil {
		header = fmt.Sprintf("Post Board (%d posts, role %s)", len(m.Board.Posts), m.Board.Role)
	}
	b.WriteString(titleStyle.Render(header) + "\n\n")
	b.WriteString(m.Table.View())

	if row := m.Table.SelectedRow(); row != nil && m.Board != nil {
		if i := m.Table.Cursor(); i >= 0 && i < len(m.Board.Posts) {
			b.WriteString("\n\n" + m.Board.Posts[i].Description)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render("r refresh, l log out, q quit, up/down to navigate"))
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return docStyle.Render(b.String())
}
