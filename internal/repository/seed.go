package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/andy/billfold/internal/domain"
)

// seedInvoice mirrors storedInvoice but tolerates the looser shape of a
// seed document: raw numeric item fields, no precomputed totals, and a
// possibly absent status or due date.
type seedInvoice struct {
	ID            string         `json:"id"`
	CreatedAt     string         `json:"createdAt"`
	PaymentTerms  int            `json:"paymentTerms"`
	Description   string         `json:"description"`
	ClientName    string         `json:"clientName"`
	ClientEmail   string         `json:"clientEmail"`
	SenderAddress domain.Address `json:"senderAddress"`
	ClientAddress domain.Address `json:"clientAddress"`
	Status        string         `json:"status"`
	Items         []seedLineItem `json:"items"`
}

type seedLineItem struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// LoadSeed reads a seed document and normalizes each record into a full
// invoice: derived fields recomputed, status defaulted to pending.
// Consumed only when no persisted blob exists.
func LoadSeed(path string) ([]domain.Invoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seeds []seedInvoice
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	invoices := make([]domain.Invoice, 0, len(seeds))
	for _, s := range seeds {
		createdAt, err := parseDate(s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("seed record %s: bad createdAt: %w", s.ID, err)
		}

		status := domain.Status(s.Status)
		if !status.Valid() {
			status = domain.StatusPending
		}

		items := make([]domain.LineItem, len(s.Items))
		for i, it := range s.Items {
			items[i] = domain.LineItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price}
		}

		inv := domain.Invoice{
			ID:            s.ID,
			CreatedAt:     createdAt,
			PaymentTerms:  s.PaymentTerms,
			Description:   s.Description,
			ClientName:    s.ClientName,
			ClientEmail:   s.ClientEmail,
			SenderAddress: s.SenderAddress,
			ClientAddress: s.ClientAddress,
			Status:        status,
			Items:         items,
		}
		inv.Recalculate()
		invoices = append(invoices, inv)
	}

	return invoices, nil
}
