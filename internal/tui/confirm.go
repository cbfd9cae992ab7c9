package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel is the deletion confirmation gate. It holds a single-use
// callback between Open and Confirm/Cancel; the callback runs at most
// once, and only on explicit confirm. What the callback does (delete,
// re-render, notify) is the caller's business.
type ConfirmModel struct {
	active    bool
	invoiceID string
	onConfirm func() tea.Msg
}

// NewConfirmModel creates an idle confirmation model
func NewConfirmModel() *ConfirmModel {
	return &ConfirmModel{}
}

// Active returns true while the confirmation surface is showing
func (m *ConfirmModel) Active() bool {
	return m.active
}

// Open captures the target id and callback and shows the surface
func (m *ConfirmModel) Open(invoiceID string, onConfirm func() tea.Msg) {
	m.active = true
	m.invoiceID = invoiceID
	m.onConfirm = onConfirm
}

// Confirm invokes the captured callback exactly once and returns to idle
func (m *ConfirmModel) Confirm() tea.Cmd {
	cb := m.onConfirm
	m.reset()
	if cb == nil {
		return nil
	}
	return func() tea.Msg { return cb() }
}

// Cancel discards the callback without invoking it
func (m *ConfirmModel) Cancel() {
	m.reset()
}

func (m *ConfirmModel) reset() {
	m.active = false
	m.invoiceID = ""
	m.onConfirm = nil
}

// View renders the confirmation modal
func (m *ConfirmModel) View() string {
	if !m.active {
		return ""
	}

	body := titleStyle.Render("Confirm Deletion") + "\n\n" +
		fmt.Sprintf("Are you sure you want to delete invoice #%s?\n", m.invoiceID) +
		subtitleStyle.Render("This action cannot be undone.") + "\n\n" +
		helpStyle.Render("enter/y: delete  esc/n: cancel")

	return modalStyle.Render(body)
}

// overlayCentered places the modal over the given background area
func overlayCentered(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
