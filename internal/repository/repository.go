package repository

import (
	"context"

	"github.com/andy/billfold/internal/domain"
)

// BlobStore is an opaque key-value store holding one string per key.
// It is the persistence primitive everything else is built on: reads of a
// missing key report found=false, never an error.
type BlobStore interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// InvoiceRepository persists the whole invoice collection as one blob.
// Every save is a full overwrite; there are no partial writes.
type InvoiceRepository interface {
	// LoadAll reads the persisted collection. Missing or malformed data
	// degrades to an empty list with found=false; it is never an error.
	LoadAll(ctx context.Context) (invoices []domain.Invoice, found bool)

	// SaveAll overwrites the persisted collection
	SaveAll(ctx context.Context, invoices []domain.Invoice) error

	// Clear removes the persisted collection entirely
	Clear(ctx context.Context) error
}
