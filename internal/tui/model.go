package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/billfold/internal/app"
)

// Model is the root Bubble Tea model. The invoices screen is always
// present; the form drawer and the delete confirmation layer over it,
// and input routing follows their precedence: confirmation first, then
// the drawer, then the list.
type Model struct {
	app      *app.App
	width    int
	height   int
	invoices *InvoicesModel
	form     *FormModel
	confirm  *ConfirmModel
	err      error
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:      a,
		invoices: NewInvoicesModel(a),
		form:     NewFormModel(a),
		confirm:  NewConfirmModel(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.invoices.Init()
}

// Update implements tea.Model - routes keys by layer precedence
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Both layers track their own size
		m.invoices.Update(msg)
		m.form.Update(msg)
		return m, nil

	case tea.KeyMsg:
		m.err = nil

		if m.confirm.Active() {
			switch msg.String() {
			case "enter", "y":
				return m, m.confirm.Confirm()
			case "esc", "n", "q":
				m.confirm.Cancel()
			}
			return m, nil
		}

		if m.form.IsCapturingInput() {
			_, cmd := m.form.Update(msg)
			return m, cmd
		}

		if key.Matches(msg, DefaultKeyMap.Quit) {
			return m, tea.Quit
		}

		_, cmd := m.invoices.Update(msg)
		return m, cmd

	case RequestDeleteMsg:
		id := msg.InvoiceID
		a := m.app
		m.confirm.Open(id, func() tea.Msg {
			err := a.Invoices.Delete(context.Background(), id)
			return InvoiceDeletedMsg{InvoiceID: id, Err: err}
		})
		return m, nil

	case OpenNewInvoiceFormMsg, OpenEditInvoiceFormMsg:
		_, cmd := m.form.Update(msg)
		return m, cmd

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Data and tick messages go to both layers
	_, formCmd := m.form.Update(msg)
	_, listCmd := m.invoices.Update(msg)
	return m, tea.Batch(formCmd, listCmd)
}

// View implements tea.Model - renders header + active layer + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.confirm.Active() {
		return overlayCentered(m.width, m.height, m.confirm.View())
	}

	header := headerStyle.Render("billfold")
	footer := footerStyle.Render("[N]ew  [1/2/3] Filters  [Q]uit")

	var content string
	if m.form.IsCapturingInput() {
		content = m.form.View()
		footer = footerStyle.Render("[Esc] Discard")
	} else {
		content = m.invoices.View()
	}

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = lipgloss.NewStyle().
			Foreground(errorColor).
			Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
