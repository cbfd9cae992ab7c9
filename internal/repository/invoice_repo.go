package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/andy/billfold/internal/domain"
)

// invoicesKey is the single blob key holding the whole collection
const invoicesKey = "invoices"

// dateLayout is the calendar-date format used in the persisted blob.
// Invoices carry dates, not timestamps.
const dateLayout = "2006-01-02"

// InvoiceRepo stores the invoice collection as a JSON array in a BlobStore
type InvoiceRepo struct {
	blob BlobStore
	log  zerolog.Logger
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(blob BlobStore, log zerolog.Logger) *InvoiceRepo {
	return &InvoiceRepo{blob: blob, log: log}
}

// storedInvoice is the on-disk shape of an invoice
type storedInvoice struct {
	ID            string           `json:"id"`
	CreatedAt     string           `json:"createdAt"`
	PaymentTerms  int              `json:"paymentTerms"`
	PaymentDue    string           `json:"paymentDue"`
	Description   string           `json:"description"`
	ClientName    string           `json:"clientName"`
	ClientEmail   string           `json:"clientEmail"`
	SenderAddress domain.Address   `json:"senderAddress"`
	ClientAddress domain.Address   `json:"clientAddress"`
	Status        string           `json:"status"`
	Items         []storedLineItem `json:"items"`
	Total         decimal.Decimal  `json:"total"`
}

type storedLineItem struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// LoadAll reads the collection from the blob store. Any failure to read or
// decode degrades to an empty list: stored data is never allowed to take
// the application down.
func (r *InvoiceRepo) LoadAll(ctx context.Context) ([]domain.Invoice, bool) {
	raw, found, err := r.blob.Get(invoicesKey)
	if err != nil {
		r.log.Warn().Err(err).Msg("invoice blob unreadable, starting empty")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var stored []storedInvoice
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.log.Warn().Err(err).Msg("invoice blob malformed, starting empty")
		return nil, false
	}

	invoices := make([]domain.Invoice, 0, len(stored))
	for _, s := range stored {
		inv, err := fromStored(s)
		if err != nil {
			r.log.Warn().Err(err).Str("id", s.ID).Msg("invoice record malformed, starting empty")
			return nil, false
		}
		invoices = append(invoices, inv)
	}

	return invoices, true
}

// SaveAll overwrites the persisted collection with the given invoices
func (r *InvoiceRepo) SaveAll(ctx context.Context, invoices []domain.Invoice) error {
	stored := make([]storedInvoice, len(invoices))
	for i, inv := range invoices {
		stored[i] = toStored(inv)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode invoices: %w", err)
	}

	if err := r.blob.Set(invoicesKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist invoices: %w", err)
	}
	return nil
}

// Clear deletes the invoice blob
func (r *InvoiceRepo) Clear(ctx context.Context) error {
	return r.blob.Delete(invoicesKey)
}

func toStored(inv domain.Invoice) storedInvoice {
	items := make([]storedLineItem, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = storedLineItem(it)
	}
	return storedInvoice{
		ID:            inv.ID,
		CreatedAt:     inv.CreatedAt.Format(dateLayout),
		PaymentTerms:  inv.PaymentTerms,
		PaymentDue:    inv.PaymentDue.Format(dateLayout),
		Description:   inv.Description,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		SenderAddress: inv.SenderAddress,
		ClientAddress: inv.ClientAddress,
		Status:        string(inv.Status),
		Items:         items,
		Total:         inv.Total,
	}
}

func fromStored(s storedInvoice) (domain.Invoice, error) {
	createdAt, err := parseDate(s.CreatedAt)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("bad createdAt: %w", err)
	}
	paymentDue, err := parseDate(s.PaymentDue)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("bad paymentDue: %w", err)
	}

	status := domain.Status(s.Status)
	if !status.Valid() {
		return domain.Invoice{}, fmt.Errorf("bad status %q", s.Status)
	}

	items := make([]domain.LineItem, len(s.Items))
	for i, it := range s.Items {
		items[i] = domain.LineItem(it)
	}

	return domain.Invoice{
		ID:            s.ID,
		CreatedAt:     createdAt,
		PaymentTerms:  s.PaymentTerms,
		PaymentDue:    paymentDue,
		Description:   s.Description,
		ClientName:    s.ClientName,
		ClientEmail:   s.ClientEmail,
		SenderAddress: s.SenderAddress,
		ClientAddress: s.ClientAddress,
		Status:        status,
		Items:         items,
		Total:         s.Total,
	}, nil
}

// parseDate parses a calendar date in the stored layout
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
