package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/andy/billfold/internal/app"
	"github.com/andy/billfold/internal/domain"
)

type invoiceViewMode int

const (
	invoiceViewList   invoiceViewMode = iota
	invoiceViewDetail                 // Viewing a single invoice
)

// slideDuration is how long the detail panel transition runs before the
// panel is actually torn down. Closing keeps rendering the detail until
// the tick lands so the exit does not pop.
const slideDuration = 300 * time.Millisecond

// InvoicesModel displays invoices in list and detail views
type InvoicesModel struct {
	app      *app.App
	mode     invoiceViewMode
	invoices []domain.Invoice
	total    int
	filters  []domain.Status
	cursor   int
	selected domain.Invoice

	// detailVisible outlives mode during the close transition; slideGen
	// invalidates stale ticks when the panel reopens mid-transition
	detailVisible bool
	slideGen      int

	width     int
	height    int
	loading   bool
	err       error
	statusMsg string
}

// IsCapturingInput reports whether list hotkeys should be suppressed.
// The list and detail views never capture free text.
func (m *InvoicesModel) IsCapturingInput() bool {
	return false
}

type invoicesDataMsg struct {
	invoices []domain.Invoice
	total    int
}

// slideDoneMsg fires when the detail close transition finishes
type slideDoneMsg struct {
	gen int
}

type markPaidMsg struct {
	id  string
	err error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) *InvoicesModel {
	return &InvoicesModel{
		app:     a,
		mode:    invoiceViewList,
		loading: true,
	}
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	filters := m.filters
	return func() tea.Msg {
		return invoicesDataMsg{
			invoices: m.app.Invoices.Filtered(filters),
			total:    m.app.Invoices.Count(),
		}
	}
}

func (m *InvoicesModel) markPaid(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.app.Invoices.MarkPaid(context.Background(), id)
		return markPaidMsg{id: id, err: err}
	}
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case invoicesDataMsg:
		m.loading = false
		m.invoices = msg.invoices
		m.total = msg.total
		if m.cursor >= len(m.invoices) {
			m.cursor = len(m.invoices) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		// Keep an open detail in sync with the refreshed data
		if m.mode == invoiceViewDetail {
			if inv, err := m.app.Invoices.Get(m.selected.ID); err == nil {
				m.selected = inv
			} else {
				return m, m.closeDetail()
			}
		}
		return m, nil

	case slideDoneMsg:
		if msg.gen == m.slideGen && m.mode == invoiceViewList {
			m.detailVisible = false
		}
		return m, nil

	case markPaidMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Invoice #%s marked as paid", msg.id)
		// The detail for a changed invoice is stale; go back to the list
		if m.mode == invoiceViewDetail && m.selected.ID == msg.id {
			return m, tea.Batch(m.closeDetail(), m.loadInvoices())
		}
		return m, m.loadInvoices()

	case RefreshDataMsg:
		return m, m.loadInvoices()

	case FormClosedMsg:
		if msg.Saved {
			m.statusMsg = fmt.Sprintf("Invoice #%s saved", msg.InvoiceID)
			return m, m.loadInvoices()
		}
		return m, nil

	case InvoiceDeletedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Invoice #%s deleted", msg.InvoiceID)
		if m.mode == invoiceViewDetail && m.selected.ID == msg.InvoiceID {
			return m, tea.Batch(m.closeDetail(), m.loadInvoices())
		}
		return m, m.loadInvoices()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *InvoicesModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	m.err = nil

	switch m.mode {
	case invoiceViewList:
		return m.handleListKey(msg)
	case invoiceViewDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m *InvoicesModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.invoices)-1 {
			m.cursor++
		}

	case key.Matches(msg, DefaultKeyMap.Select):
		if m.cursor < len(m.invoices) {
			m.selected = m.invoices[m.cursor]
			m.mode = invoiceViewDetail
			m.detailVisible = true
			m.slideGen++
		}

	case key.Matches(msg, DefaultKeyMap.New):
		return m, func() tea.Msg { return OpenNewInvoiceFormMsg{} }

	case key.Matches(msg, DefaultKeyMap.FilterDraft):
		return m, m.toggleFilter(domain.StatusDraft)

	case key.Matches(msg, DefaultKeyMap.FilterPending):
		return m, m.toggleFilter(domain.StatusPending)

	case key.Matches(msg, DefaultKeyMap.FilterPaid):
		return m, m.toggleFilter(domain.StatusPaid)
	}

	return m, nil
}

func (m *InvoicesModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		return m, m.closeDetail()

	case key.Matches(msg, DefaultKeyMap.Edit):
		if m.selected.CanEdit() {
			inv := m.selected
			return m, func() tea.Msg { return OpenEditInvoiceFormMsg{Invoice: inv} }
		}
		m.statusMsg = "Paid invoices cannot be edited"

	case key.Matches(msg, DefaultKeyMap.MarkPaid):
		if m.selected.CanMarkPaid() {
			// Flip the badge right away; the store confirms via markPaidMsg
			m.selected.Status = domain.StatusPaid
			return m, m.markPaid(m.selected.ID)
		}

	case key.Matches(msg, DefaultKeyMap.Delete):
		id := m.selected.ID
		return m, func() tea.Msg { return RequestDeleteMsg{InvoiceID: id} }
	}

	return m, nil
}

// closeDetail returns to the list but keeps the panel rendered until the
// transition tick matching the current generation lands
func (m *InvoicesModel) closeDetail() tea.Cmd {
	m.mode = invoiceViewList
	m.slideGen++
	gen := m.slideGen
	return tea.Tick(slideDuration, func(time.Time) tea.Msg {
		return slideDoneMsg{gen: gen}
	})
}

// toggleFilter adds or removes a status from the active filter set and
// reloads. An empty set shows everything.
func (m *InvoicesModel) toggleFilter(status domain.Status) tea.Cmd {
	if lo.Contains(m.filters, status) {
		m.filters = lo.Without(m.filters, status)
	} else {
		m.filters = append(m.filters, status)
	}
	m.cursor = 0
	return m.loadInvoices()
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return subtitleStyle.Render("Loading invoices...")
	}

	var b strings.Builder

	if m.detailVisible {
		b.WriteString(m.detailView())
	} else {
		b.WriteString(m.listView())
	}

	if m.err != nil {
		b.WriteString("\n" + errorLabelStyle.Render("Error: "+m.err.Error()))
	}
	if m.statusMsg != "" {
		b.WriteString("\n" + footerStyle.Render(m.statusMsg))
	}

	return b.String()
}

func (m *InvoicesModel) listView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Invoices") + "\n")
	b.WriteString(subtitleStyle.Render(countLine(m.total)) + "\n")
	b.WriteString(m.filterLine() + "\n\n")

	if m.total == 0 {
		b.WriteString(titleStyle.Render("There is nothing here") + "\n\n")
		b.WriteString("Create an invoice by pressing " + helpStyle.Render("n") + " and get started.\n\n")
		b.WriteString(helpStyle.Render("n: new invoice  q: quit"))
		return b.String()
	}

	if len(m.invoices) == 0 {
		b.WriteString(subtitleStyle.Render("No invoices match the active filters.") + "\n\n")
		b.WriteString(helpStyle.Render("1/2/3: toggle filters  n: new invoice  q: quit"))
		return b.String()
	}

	for i, inv := range m.invoices {
		row := fmt.Sprintf("#%s  Due %s  %-20s %12s  %s",
			inv.ID,
			formatDate(inv.PaymentDue),
			truncateStr(inv.ClientName, 20),
			formatMoney(inv.Total),
			statusBadge(inv.Status),
		)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+row) + "\n")
		} else {
			b.WriteString("  " + row + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓: navigate  enter: view  n: new  1/2/3: filters  q: quit"))
	return b.String()
}

// filterLine shows which statuses the list is narrowed to
func (m *InvoicesModel) filterLine() string {
	if len(m.filters) == 0 {
		return subtitleStyle.Render("Filter: all")
	}
	names := lo.Map(m.filters, func(s domain.Status, _ int) string {
		return formatStatus(s)
	})
	return subtitleStyle.Render("Filter: " + strings.Join(names, ", "))
}

func (m *InvoicesModel) detailView() string {
	inv := m.selected
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Invoice #%s", inv.ID)) + "  " + statusBadge(inv.Status) + "\n")
	if inv.Description != "" {
		b.WriteString(subtitleStyle.Render(inv.Description) + "\n")
	}
	b.WriteString("\n")

	from := sectionStyle.Render("From") + "\n" + addressBlock(inv.SenderAddress)
	to := sectionStyle.Render("Bill To") + "\n" +
		inv.ClientName + "\n" +
		addressBlock(inv.ClientAddress) +
		subtitleStyle.Render(inv.ClientEmail)
	dates := sectionStyle.Render("Dates") + "\n" +
		fmt.Sprintf("Invoice Date  %s\n", formatDate(inv.CreatedAt)) +
		fmt.Sprintf("Payment Due   %s", formatDate(inv.PaymentDue))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(26).Render(from),
		lipgloss.NewStyle().Width(30).Render(to),
		dates,
	))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Items") + "\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%-24s %5s %14s %14s", "Item Name", "QTY.", "Price", "Total")) + "\n")
	for _, item := range inv.Items {
		b.WriteString(fmt.Sprintf("%-24s %5s %14s %14s\n",
			truncateStr(item.Name, 24),
			item.Quantity.String(),
			formatMoney(item.Price),
			formatMoney(item.Total),
		))
	}
	b.WriteString("\n" + titleStyle.Render(fmt.Sprintf("Amount Due  %s", formatMoney(inv.Total))) + "\n")

	help := "esc: back"
	if inv.CanEdit() {
		help += "  e: edit"
	}
	if inv.CanMarkPaid() {
		help += "  p: mark as paid"
	}
	help += "  d: delete  q: quit"
	b.WriteString("\n" + helpStyle.Render(help))

	return b.String()
}

// addressBlock renders the street line plus the combined city/state line
func addressBlock(addr domain.Address) string {
	var b strings.Builder
	if addr.Street != "" {
		b.WriteString(addr.Street + "\n")
	}
	if line := addr.CityStateLine(); line != "" {
		b.WriteString(line + "\n")
	}
	if addr.ZipCode != "" {
		b.WriteString(addr.ZipCode + "\n")
	}
	return b.String()
}
