package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft   Status = "draft"
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// statusRank orders the lifecycle: draft -> pending -> paid.
var statusRank = map[Status]int{
	StatusDraft:   0,
	StatusPending: 1,
	StatusPaid:    2,
}

// Valid returns true for a known status value
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo returns true if moving to next never goes backward
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return statusRank[next] >= statusRank[s]
}

// Address is one postal address block on an invoice
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	State   string `json:"state"`
}

// CityStateLine renders "city, state" with the comma only when both parts exist
func (a Address) CityStateLine() string {
	switch {
	case a.City != "" && a.State != "":
		return a.City + ", " + a.State
	case a.City != "":
		return a.City
	default:
		return a.State
	}
}

// LineItem is one billable unit. Total is derived from Quantity and Price
// and must never be edited independently. Quantity is a decimal because
// fractional quantities (hours, partial units) are legal input.
type LineItem struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// Amount returns Quantity * Price
func (li LineItem) Amount() decimal.Decimal {
	return li.Price.Mul(li.Quantity)
}

// Invoice is a billing record. ID, PaymentDue, Total and the per-item
// totals are derived fields owned by the store; amounts stay numeric and
// are only formatted as currency at the presentation boundary.
type Invoice struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	PaymentTerms  int             `json:"paymentTerms"`
	PaymentDue    time.Time       `json:"paymentDue"`
	Description   string          `json:"description"`
	ClientName    string          `json:"clientName"`
	ClientEmail   string          `json:"clientEmail"`
	SenderAddress Address         `json:"senderAddress"`
	ClientAddress Address         `json:"clientAddress"`
	Status        Status          `json:"status"`
	Items         []LineItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
}

// DueDate computes createdAt + terms days
func DueDate(createdAt time.Time, terms int) time.Time {
	return createdAt.AddDate(0, 0, terms)
}

// Recalculate recomputes every derived field: each item total, the invoice
// total, and the payment due date. Called on every create and update.
func (i *Invoice) Recalculate() {
	total := decimal.Zero
	for idx := range i.Items {
		i.Items[idx].Total = i.Items[idx].Amount()
		total = total.Add(i.Items[idx].Total)
	}
	i.Total = total
	i.PaymentDue = DueDate(i.CreatedAt, i.PaymentTerms)
}

// CanEdit returns true if the invoice can still be modified
func (i *Invoice) CanEdit() bool {
	return i.Status != StatusPaid
}

// CanMarkPaid returns true only for pending invoices; drafts must be
// finalized first and paid is terminal.
func (i *Invoice) CanMarkPaid() bool {
	return i.Status == StatusPending
}
