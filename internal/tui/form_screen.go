package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/andy/billfold/internal/app"
	"github.com/andy/billfold/internal/domain"
	"github.com/andy/billfold/internal/service"
)

type formMode int

const (
	formClosed formMode = iota
	formNew
	formEdit
)

// Field indices for the scalar form inputs. Item rows follow after
// fieldCount in the focus order, three inputs per row.
const (
	fSenderStreet = iota
	fSenderCity
	fSenderZip
	fSenderState
	fClientName
	fClientEmail
	fClientStreet
	fClientCity
	fClientZip
	fClientState
	fInvoiceDate
	fPaymentTerms
	fDescription
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Street Address",
	"City",
	"Zip Code",
	"State",
	"Client's Name",
	"Client's Email",
	"Street Address",
	"City",
	"Zip Code",
	"State",
	"Invoice Date",
	"Payment Terms (days)",
	"Project Description",
}

// fieldKeys map inputs to validation error keys for per-field markers
var fieldKeys = [fieldCount]string{
	"SenderStreet", "SenderCity", "SenderZip", "SenderState",
	"ClientName", "ClientEmail", "ClientStreet", "ClientCity", "ClientZip", "ClientState",
	"InvoiceDate", "PaymentTerms", "Description",
}

// closeDelay is how long discarded form state lingers after the drawer
// closes. Clearing immediately makes the rows vanish while the close is
// still on screen.
const closeDelay = 500 * time.Millisecond

type itemRow struct {
	name  textinput.Model
	qty   textinput.Model
	price textinput.Model
}

// FormModel is the invoice drawer: a full-screen form for creating and
// editing invoices. While open it captures all input.
type FormModel struct {
	app    *app.App
	mode   formMode
	editID string

	fields [fieldCount]textinput.Model
	items  []itemRow
	focus  int

	errs   service.ValidationErrors
	err    error
	saving bool

	// clearGen invalidates the deferred clear when the drawer reopens
	// before the previous close finished
	clearGen int

	width  int
	height int
}

type invoiceSavedMsg struct {
	invoice domain.Invoice
	err     error
}

// formClearedMsg fires after closeDelay to discard stale form state
type formClearedMsg struct {
	gen int
}

// NewFormModel creates a closed form model
func NewFormModel(a *app.App) *FormModel {
	m := &FormModel{app: a}
	for i := range m.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 100
		m.fields[i] = ti
	}
	m.fields[fInvoiceDate].Placeholder = "2026-08-31"
	m.fields[fPaymentTerms].Placeholder = "30"
	return m
}

// IsCapturingInput returns true while the drawer is open
func (m *FormModel) IsCapturingInput() bool {
	return m.mode != formClosed
}

func (m *FormModel) Init() tea.Cmd {
	return nil
}

// openNew resets the form to a single blank item row and focuses the
// first field
func (m *FormModel) openNew() tea.Cmd {
	m.mode = formNew
	m.editID = ""
	m.errs = nil
	m.err = nil
	m.saving = false
	m.clearGen++
	for i := range m.fields {
		m.fields[i].SetValue("")
	}
	m.fields[fInvoiceDate].SetValue(time.Now().Format("2006-01-02"))
	m.fields[fPaymentTerms].SetValue(fmt.Sprintf("%d", m.app.Config.Invoice.DefaultTerms))
	m.items = []itemRow{newItemRow()}
	m.focus = 0
	return m.updateFocus()
}

// openEdit populates the form from an existing invoice
func (m *FormModel) openEdit(inv domain.Invoice) tea.Cmd {
	m.mode = formEdit
	m.editID = inv.ID
	m.errs = nil
	m.err = nil
	m.saving = false
	m.clearGen++

	form := service.FormFromInvoice(inv)
	m.fields[fSenderStreet].SetValue(form.SenderStreet)
	m.fields[fSenderCity].SetValue(form.SenderCity)
	m.fields[fSenderZip].SetValue(form.SenderZip)
	m.fields[fSenderState].SetValue(form.SenderState)
	m.fields[fClientName].SetValue(form.ClientName)
	m.fields[fClientEmail].SetValue(form.ClientEmail)
	m.fields[fClientStreet].SetValue(form.ClientStreet)
	m.fields[fClientCity].SetValue(form.ClientCity)
	m.fields[fClientZip].SetValue(form.ClientZip)
	m.fields[fClientState].SetValue(form.ClientState)
	m.fields[fInvoiceDate].SetValue(form.InvoiceDate)
	m.fields[fPaymentTerms].SetValue(form.PaymentTerms)
	m.fields[fDescription].SetValue(form.Description)

	m.items = make([]itemRow, 0, len(form.Items))
	for _, it := range form.Items {
		row := newItemRow()
		row.name.SetValue(it.Name)
		row.qty.SetValue(it.Quantity)
		row.price.SetValue(it.Price)
		m.items = append(m.items, row)
	}
	if len(m.items) == 0 {
		m.items = []itemRow{newItemRow()}
	}

	m.focus = 0
	return m.updateFocus()
}

func newItemRow() itemRow {
	name := textinput.New()
	name.Prompt = ""
	name.CharLimit = 60
	qty := textinput.New()
	qty.Prompt = ""
	qty.CharLimit = 6
	qty.Width = 6
	price := textinput.New()
	price.Prompt = ""
	price.CharLimit = 12
	price.Width = 12
	return itemRow{name: name, qty: qty, price: price}
}

// focusCount is the total number of focusable inputs
func (m *FormModel) focusCount() int {
	return fieldCount + 3*len(m.items)
}

// updateFocus blurs everything and focuses the input at m.focus
func (m *FormModel) updateFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.fields {
		if i == m.focus {
			cmd = m.fields[i].Focus()
		} else {
			m.fields[i].Blur()
		}
	}
	for i := range m.items {
		base := fieldCount + 3*i
		inputs := []*textinput.Model{&m.items[i].name, &m.items[i].qty, &m.items[i].price}
		for j, ti := range inputs {
			if base+j == m.focus {
				cmd = ti.Focus()
			} else {
				ti.Blur()
			}
		}
	}
	return cmd
}

func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case OpenNewInvoiceFormMsg:
		return m, m.openNew()

	case OpenEditInvoiceFormMsg:
		return m, m.openEdit(msg.Invoice)

	case invoiceSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.closeForm(true, msg.invoice.ID)

	case formClearedMsg:
		if msg.gen == m.clearGen && m.mode == formClosed {
			m.items = nil
			for i := range m.fields {
				m.fields[i].SetValue("")
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == formClosed || m.saving {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *FormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		return m, m.closeForm(false, "")

	case key.Matches(msg, DefaultKeyMap.SaveSend):
		return m, m.submit()

	case key.Matches(msg, DefaultKeyMap.SaveDraft):
		if m.mode == formNew {
			return m, m.submitDraft()
		}
		return m, nil

	case key.Matches(msg, DefaultKeyMap.AddItem):
		m.items = append(m.items, newItemRow())
		m.focus = fieldCount + 3*(len(m.items)-1)
		return m, m.updateFocus()

	case key.Matches(msg, DefaultKeyMap.RemoveItem):
		if idx := m.currentItemIndex(); idx >= 0 && len(m.items) > 0 {
			m.items = append(m.items[:idx], m.items[idx+1:]...)
			if m.focus >= m.focusCount() {
				m.focus = m.focusCount() - 1
			}
			return m, m.updateFocus()
		}
		return m, nil

	case key.Matches(msg, DefaultKeyMap.NextField):
		m.focus = (m.focus + 1) % m.focusCount()
		return m, m.updateFocus()

	case key.Matches(msg, DefaultKeyMap.PrevField):
		m.focus--
		if m.focus < 0 {
			m.focus = m.focusCount() - 1
		}
		return m, m.updateFocus()
	}

	// Everything else goes to the focused input
	var cmd tea.Cmd
	if m.focus < fieldCount {
		m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	} else if idx := m.currentItemIndex(); idx >= 0 {
		switch (m.focus - fieldCount) % 3 {
		case 0:
			m.items[idx].name, cmd = m.items[idx].name.Update(msg)
		case 1:
			m.items[idx].qty, cmd = m.items[idx].qty.Update(msg)
		case 2:
			m.items[idx].price, cmd = m.items[idx].price.Update(msg)
		}
	}
	return m, cmd
}

// currentItemIndex returns the item row the focus sits in, or -1 when a
// scalar field is focused
func (m *FormModel) currentItemIndex() int {
	if m.focus < fieldCount {
		return -1
	}
	idx := (m.focus - fieldCount) / 3
	if idx >= len(m.items) {
		return -1
	}
	return idx
}

// buildForm assembles the raw form values for validation
func (m *FormModel) buildForm() service.Form {
	items := make([]service.ItemForm, len(m.items))
	for i, row := range m.items {
		items[i] = service.ItemForm{
			Name:     row.name.Value(),
			Quantity: row.qty.Value(),
			Price:    row.price.Value(),
		}
	}
	return service.Form{
		SenderStreet: m.fields[fSenderStreet].Value(),
		SenderCity:   m.fields[fSenderCity].Value(),
		SenderZip:    m.fields[fSenderZip].Value(),
		SenderState:  m.fields[fSenderState].Value(),
		ClientName:   m.fields[fClientName].Value(),
		ClientEmail:  m.fields[fClientEmail].Value(),
		ClientStreet: m.fields[fClientStreet].Value(),
		ClientCity:   m.fields[fClientCity].Value(),
		ClientZip:    m.fields[fClientZip].Value(),
		ClientState:  m.fields[fClientState].Value(),
		InvoiceDate:  m.fields[fInvoiceDate].Value(),
		PaymentTerms: m.fields[fPaymentTerms].Value(),
		Description:  m.fields[fDescription].Value(),
		Items:        items,
	}
}

// submit validates the full form and saves. A new invoice goes out
// pending; editing a draft promotes it to pending, editing a pending
// invoice keeps its status.
func (m *FormModel) submit() tea.Cmd {
	form := m.buildForm()
	if errs := form.Validate(); len(errs) > 0 {
		m.errs = errs
		m.err = nil
		return nil
	}
	m.errs = nil

	status := domain.StatusPending
	input, err := form.ToInput(status)
	if err != nil {
		m.err = err
		return nil
	}

	m.saving = true
	mode, editID, a := m.mode, m.editID, m.app
	return func() tea.Msg {
		ctx := context.Background()
		var inv domain.Invoice
		var saveErr error
		if mode == formEdit {
			inv, saveErr = a.Invoices.Update(ctx, editID, input)
		} else {
			inv, saveErr = a.Invoices.Create(ctx, input)
		}
		return invoiceSavedMsg{invoice: inv, err: saveErr}
	}
}

// submitDraft validates with the relaxed draft rules. A missing invoice
// date defaults to today so the due date stays computable.
func (m *FormModel) submitDraft() tea.Cmd {
	form := m.buildForm()
	if errs := form.ValidateDraft(); len(errs) > 0 {
		m.errs = errs
		m.err = nil
		return nil
	}
	m.errs = nil

	if form.InvoiceDate == "" {
		form.InvoiceDate = time.Now().Format("2006-01-02")
	}
	input, err := form.ToInput(domain.StatusDraft)
	if err != nil {
		m.err = err
		return nil
	}

	m.saving = true
	a := m.app
	return func() tea.Msg {
		inv, saveErr := a.Invoices.Create(context.Background(), input)
		return invoiceSavedMsg{invoice: inv, err: saveErr}
	}
}

// closeForm hides the drawer immediately and schedules the state clear
func (m *FormModel) closeForm(saved bool, invoiceID string) tea.Cmd {
	m.mode = formClosed
	m.clearGen++
	gen := m.clearGen

	closed := func() tea.Msg { return FormClosedMsg{Saved: saved, InvoiceID: invoiceID} }
	clear := tea.Tick(closeDelay, func(time.Time) tea.Msg {
		return formClearedMsg{gen: gen}
	})
	return tea.Batch(closed, clear)
}

func (m *FormModel) View() string {
	if m.mode == formClosed {
		return ""
	}

	var b strings.Builder

	if m.mode == formEdit {
		b.WriteString(titleStyle.Render(fmt.Sprintf("Edit #%s", m.editID)) + "\n\n")
	} else {
		b.WriteString(titleStyle.Render("New Invoice") + "\n\n")
	}

	b.WriteString(sectionStyle.Render("Bill From") + "\n")
	for i := fSenderStreet; i <= fSenderState; i++ {
		b.WriteString(m.fieldView(i))
	}

	b.WriteString("\n" + sectionStyle.Render("Bill To") + "\n")
	for i := fClientName; i <= fClientState; i++ {
		b.WriteString(m.fieldView(i))
	}

	b.WriteString("\n")
	for i := fInvoiceDate; i <= fDescription; i++ {
		b.WriteString(m.fieldView(i))
	}

	b.WriteString("\n" + sectionStyle.Render("Item List") + "\n")
	if m.errs.Has("items") {
		b.WriteString(errorLabelStyle.Render("At least one item must be added") + "\n")
	}
	for i, row := range m.items {
		b.WriteString(m.itemRowView(i, row))
	}

	if len(m.errs) > 0 {
		b.WriteString("\n" + errorLabelStyle.Render("Please fix the following:") + "\n")
		for _, fe := range m.errs {
			b.WriteString(errorLabelStyle.Render("  - "+fe.Message) + "\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n" + errorLabelStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	if m.saving {
		b.WriteString("\n" + subtitleStyle.Render("Saving..."))
	} else {
		help := "ctrl+s: save & send  "
		if m.mode == formNew {
			help = "ctrl+s: save & send  ctrl+d: save as draft  "
		} else if m.mode == formEdit {
			help = "ctrl+s: save changes  "
		}
		help += "ctrl+a: add item  ctrl+x: remove item  tab: next  esc: discard"
		b.WriteString("\n" + helpStyle.Render(help))
	}

	return b.String()
}

func (m *FormModel) fieldView(i int) string {
	label := fieldLabels[i]
	style := subtitleStyle
	if m.focus == i {
		style = focusedLabelStyle
	}
	if m.errs.Has(fieldKeys[i]) {
		style = errorLabelStyle
	}
	return fmt.Sprintf("%s %s\n", style.Render(fmt.Sprintf("%-22s", label)), m.fields[i].View())
}

// itemRowView renders one line-item row with its live total
func (m *FormModel) itemRowView(i int, row itemRow) string {
	total := decimal.Zero
	qty, qerr := decimal.NewFromString(strings.TrimSpace(row.qty.Value()))
	price, perr := decimal.NewFromString(strings.TrimSpace(row.price.Value()))
	if qerr == nil && perr == nil {
		total = qty.Mul(price)
	}

	marker := "  "
	base := fieldCount + 3*i
	if m.focus >= base && m.focus < base+3 {
		marker = focusedLabelStyle.Render("> ")
	}
	if m.errs.Has(fmt.Sprintf("item.%d.name", i)) ||
		m.errs.Has(fmt.Sprintf("item.%d.quantity", i)) ||
		m.errs.Has(fmt.Sprintf("item.%d.price", i)) {
		marker = errorLabelStyle.Render("! ")
	}

	return fmt.Sprintf("%s%s  x %s  @ %s  = %s\n",
		marker, row.name.View(), row.qty.View(), row.price.View(), formatMoney(total))
}
