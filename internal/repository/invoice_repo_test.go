package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/andy/billfold/internal/domain"
)

func newTestRepo(t *testing.T) (*InvoiceRepo, *FileStore) {
	t.Helper()
	store := NewFileStore(t.TempDir())
	return NewInvoiceRepo(store, zerolog.Nop()), store
}

func sampleInvoice() domain.Invoice {
	inv := domain.Invoice{
		ID:           "RT3080",
		CreatedAt:    time.Date(2024, time.August, 18, 0, 0, 0, 0, time.UTC),
		PaymentTerms: 30,
		Description:  "Re-branding",
		ClientName:   "Jensen Huang",
		ClientEmail:  "jensenh@mail.com",
		SenderAddress: domain.Address{
			Street: "19 Union Terrace", City: "London", ZipCode: "E1 3EZ", State: "United Kingdom",
		},
		ClientAddress: domain.Address{
			Street: "106 Kendell Street", City: "Sharrington", ZipCode: "NR24 5WQ", State: "United Kingdom",
		},
		Status: domain.StatusPaid,
		Items: []domain.LineItem{
			{Name: "Brand Guidelines", Quantity: decimal.RequireFromString("1.5"), Price: decimal.RequireFromString("1800.90")},
		},
	}
	inv.Recalculate()
	return inv
}

func TestInvoiceRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	want := sampleInvoice()
	if err := repo.SaveAll(ctx, []domain.Invoice{want}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	got, found := repo.LoadAll(ctx)
	if !found {
		t.Fatal("expected persisted invoices to be found")
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(got))
	}

	inv := got[0]
	if inv.ID != want.ID {
		t.Errorf("id = %q, want %q", inv.ID, want.ID)
	}
	if !inv.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("createdAt = %s, want %s", inv.CreatedAt, want.CreatedAt)
	}
	if !inv.PaymentDue.Equal(want.PaymentDue) {
		t.Errorf("paymentDue = %s, want %s", inv.PaymentDue, want.PaymentDue)
	}
	if inv.Status != domain.StatusPaid {
		t.Errorf("status = %s, want paid", inv.Status)
	}
	if !inv.Total.Equal(want.Total) {
		t.Errorf("total = %s, want %s", inv.Total, want.Total)
	}
	if len(inv.Items) != 1 || !inv.Items[0].Total.Equal(want.Items[0].Total) {
		t.Errorf("items not preserved: %+v", inv.Items)
	}
}

func TestInvoiceRepo_MissingBlobStartsEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)

	invoices, found := repo.LoadAll(context.Background())
	if found {
		t.Error("expected found=false for a fresh store")
	}
	if len(invoices) != 0 {
		t.Errorf("expected no invoices, got %d", len(invoices))
	}
}

func TestInvoiceRepo_MalformedBlobStartsEmpty(t *testing.T) {
	repo, store := newTestRepo(t)

	if err := store.Set("invoices", "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	invoices, found := repo.LoadAll(context.Background())
	if found {
		t.Error("expected found=false for a malformed blob")
	}
	if len(invoices) != 0 {
		t.Errorf("expected no invoices, got %d", len(invoices))
	}
}

func TestInvoiceRepo_BadRecordStartsEmpty(t *testing.T) {
	repo, store := newTestRepo(t)

	// Well-formed JSON, but an unusable status
	blob := `[{"id":"XX0000","createdAt":"2024-01-01","paymentDue":"2024-01-31","status":"sent","items":[]}]`
	if err := store.Set("invoices", blob); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, found := repo.LoadAll(context.Background())
	if found {
		t.Error("expected found=false for an unusable record")
	}
}

func TestInvoiceRepo_Clear(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	if err := repo.SaveAll(ctx, []domain.Invoice{sampleInvoice()}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, found := repo.LoadAll(ctx); found {
		t.Error("expected no invoices after Clear")
	}
}

func TestFileStore_GetSetDelete(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if _, found, err := store.Get("missing"); err != nil || found {
		t.Fatalf("Get(missing) = found=%v err=%v, want found=false err=nil", found, err)
	}

	if err := store.Set("key", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, found, err := store.Get("key")
	if err != nil || !found || value != "value" {
		t.Fatalf("Get(key) = %q found=%v err=%v", value, found, err)
	}

	if err := store.Delete("key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := store.Get("key"); found {
		t.Error("expected key gone after Delete")
	}

	// Deleting a missing key is a no-op
	if err := store.Delete("key"); err != nil {
		t.Errorf("Delete(missing): %v", err)
	}
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	seed := `[
		{"id":"RT3080","createdAt":"2021-08-18","paymentTerms":1,"description":"Re-branding",
		 "clientName":"Jensen Huang","status":"paid",
		 "items":[{"name":"Brand Guidelines","quantity":1,"price":1800.90}]},
		{"id":"XM9141","createdAt":"2021-08-21","paymentTerms":30,"description":"Graphic Design",
		 "items":[{"name":"Banner Design","quantity":1,"price":156.00},
		          {"name":"Email Design","quantity":2,"price":200.00}]}
	]`
	if err := os.WriteFile(path, []byte(seed), 0644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	invoices, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(invoices) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(invoices))
	}

	if invoices[0].Status != domain.StatusPaid {
		t.Errorf("first status = %s, want paid", invoices[0].Status)
	}
	// Missing status defaults to pending
	if invoices[1].Status != domain.StatusPending {
		t.Errorf("second status = %s, want pending", invoices[1].Status)
	}

	// Derived fields recomputed
	if want := decimal.RequireFromString("556.00"); !invoices[1].Total.Equal(want) {
		t.Errorf("second total = %s, want %s", invoices[1].Total, want)
	}
	wantDue := time.Date(2021, time.September, 20, 0, 0, 0, 0, time.UTC)
	if !invoices[1].PaymentDue.Equal(wantDue) {
		t.Errorf("second paymentDue = %s, want %s", invoices[1].PaymentDue, wantDue)
	}
}

func TestLoadSeed_BadDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(`[{"id":"AA0001","createdAt":"not-a-date","items":[]}]`), 0644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	_, err := LoadSeed(path)
	if err == nil || !strings.Contains(err.Error(), "createdAt") {
		t.Fatalf("expected createdAt error, got %v", err)
	}
}
