package tui

import "github.com/andy/billfold/internal/domain"

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// OpenNewInvoiceFormMsg tells the form drawer to open blank in new mode
type OpenNewInvoiceFormMsg struct{}

// OpenEditInvoiceFormMsg tells the form drawer to open populated from the
// given invoice
type OpenEditInvoiceFormMsg struct {
	Invoice domain.Invoice
}

// FormClosedMsg reports the drawer closing; Saved is true after a
// successful submission
type FormClosedMsg struct {
	Saved     bool
	InvoiceID string
}

// RequestDeleteMsg asks the root model to open the delete confirmation
// for the given invoice
type RequestDeleteMsg struct {
	InvoiceID string
}

// InvoiceDeletedMsg reports the outcome of a confirmed deletion
type InvoiceDeletedMsg struct {
	InvoiceID string
	Err       error
}
