package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/andy/billfold/internal/domain"
	"github.com/andy/billfold/internal/repository"
)

var (
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrInvoiceNotEditable = errors.New("paid invoices cannot be edited")
	ErrStatusTransition   = errors.New("invoice status can only move forward")
	ErrIDGeneration       = errors.New("could not generate a unique invoice id")
)

// maxIDAttempts bounds collision retries during id generation
const maxIDAttempts = 100

// Observer is notified synchronously after a successful store mutation.
// It replaces ad-hoc cross-component events: views subscribe instead of
// listening for broadcasts.
type Observer interface {
	InvoiceRemoved(id string)
	InvoiceStatusChanged(id string, status domain.Status)
}

// Input carries the user-supplied fields of a create or update. Derived
// fields (id, due date, totals) are computed by the store; totals present
// on input items are ignored.
type Input struct {
	CreatedAt     time.Time
	PaymentTerms  int
	Description   string
	ClientName    string
	ClientEmail   string
	SenderAddress domain.Address
	ClientAddress domain.Address
	Status        domain.Status // empty defaults to pending on create, keeps current on update
	Items         []domain.LineItem
}

// InvoiceStore is the sole owner of the invoice collection. It loads the
// persisted blob at construction, computes derived fields on every
// mutation, and writes the whole collection back after each one.
type InvoiceStore struct {
	repo      repository.InvoiceRepository
	invoices  []domain.Invoice
	observers []Observer
	log       zerolog.Logger
}

// NewInvoiceStore creates the store and loads the persisted collection.
// Missing or malformed data starts the store empty; it never fails.
func NewInvoiceStore(repo repository.InvoiceRepository, log zerolog.Logger) *InvoiceStore {
	invoices, found := repo.LoadAll(context.Background())
	if !found {
		invoices = nil
	}
	return &InvoiceStore{
		repo:     repo,
		invoices: invoices,
		log:      log,
	}
}

// Subscribe registers an observer for mutation notifications
func (s *InvoiceStore) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// Count returns the number of invoices in the collection
func (s *InvoiceStore) Count() int {
	return len(s.invoices)
}

// List returns the collection in insertion order. Callers must treat the
// returned invoices as read-only; all mutation goes through store methods.
func (s *InvoiceStore) List() []domain.Invoice {
	out := make([]domain.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}

// Filtered returns invoices whose status is in the given set, preserving
// order. An empty set means no filter.
func (s *InvoiceStore) Filtered(statuses []domain.Status) []domain.Invoice {
	if len(statuses) == 0 {
		return s.List()
	}
	return lo.Filter(s.List(), func(inv domain.Invoice, _ int) bool {
		return lo.Contains(statuses, inv.Status)
	})
}

// Get returns the invoice with the given id, or ErrInvoiceNotFound.
// Callers must branch on the error before touching the result.
func (s *InvoiceStore) Get(id string) (domain.Invoice, error) {
	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return domain.Invoice{}, ErrInvoiceNotFound
}

// Create builds a new invoice from input, assigns a fresh id, computes
// derived fields, appends it, and persists. Status defaults to pending
// unless the input explicitly asks for a draft.
func (s *InvoiceStore) Create(ctx context.Context, input Input) (domain.Invoice, error) {
	id, err := s.generateID()
	if err != nil {
		return domain.Invoice{}, err
	}

	status := input.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return domain.Invoice{}, fmt.Errorf("invalid status %q", input.Status)
	}

	inv := domain.Invoice{
		ID:            id,
		CreatedAt:     input.CreatedAt,
		PaymentTerms:  input.PaymentTerms,
		Description:   input.Description,
		ClientName:    input.ClientName,
		ClientEmail:   input.ClientEmail,
		SenderAddress: input.SenderAddress,
		ClientAddress: input.ClientAddress,
		Status:        status,
		Items:         cloneItems(input.Items),
	}
	inv.Recalculate()

	s.invoices = append(s.invoices, inv)
	if err := s.persist(ctx); err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info().Str("id", inv.ID).Str("status", string(inv.Status)).Msg("invoice created")
	return inv, nil
}

// Update replaces the invoice's user-supplied fields and recomputes the
// derived ones, keeping its position and id. The current status is kept
// unless the input overrides it; overrides never move backward, and paid
// invoices reject edits entirely.
func (s *InvoiceStore) Update(ctx context.Context, id string, input Input) (domain.Invoice, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Invoice{}, ErrInvoiceNotFound
	}

	current := s.invoices[idx]
	if !current.CanEdit() {
		return domain.Invoice{}, ErrInvoiceNotEditable
	}

	status := current.Status
	if input.Status != "" {
		if !current.Status.CanTransitionTo(input.Status) {
			return domain.Invoice{}, ErrStatusTransition
		}
		status = input.Status
	}

	inv := domain.Invoice{
		ID:            current.ID,
		CreatedAt:     input.CreatedAt,
		PaymentTerms:  input.PaymentTerms,
		Description:   input.Description,
		ClientName:    input.ClientName,
		ClientEmail:   input.ClientEmail,
		SenderAddress: input.SenderAddress,
		ClientAddress: input.ClientAddress,
		Status:        status,
		Items:         cloneItems(input.Items),
	}
	inv.Recalculate()

	s.invoices[idx] = inv
	if err := s.persist(ctx); err != nil {
		return domain.Invoice{}, err
	}

	if status != current.Status {
		s.notifyStatusChanged(inv.ID, status)
	}
	s.log.Info().Str("id", inv.ID).Msg("invoice updated")
	return inv, nil
}

// UpdateStatus moves an invoice's status forward in place and persists.
// Backward transitions are rejected.
func (s *InvoiceStore) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrInvoiceNotFound
	}
	if !s.invoices[idx].Status.CanTransitionTo(status) {
		return ErrStatusTransition
	}
	if s.invoices[idx].Status == status {
		return nil
	}

	s.invoices[idx].Status = status
	if err := s.persist(ctx); err != nil {
		return err
	}

	s.notifyStatusChanged(id, status)
	s.log.Info().Str("id", id).Str("status", string(status)).Msg("invoice status updated")
	return nil
}

// MarkPaid transitions a pending invoice to paid. Drafts and already-paid
// invoices are a no-op: the action is unreachable for them in the UI, and
// the store guards it here as well.
func (s *InvoiceStore) MarkPaid(ctx context.Context, id string) error {
	inv, err := s.Get(id)
	if err != nil {
		return err
	}
	if !inv.CanMarkPaid() {
		return nil
	}
	return s.UpdateStatus(ctx, id, domain.StatusPaid)
}

// Delete removes the invoice and persists; absent ids are a no-op
func (s *InvoiceStore) Delete(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	s.invoices = append(s.invoices[:idx], s.invoices[idx+1:]...)
	if err := s.persist(ctx); err != nil {
		return err
	}

	s.notifyRemoved(id)
	s.log.Info().Str("id", id).Msg("invoice deleted")
	return nil
}

// Seed replaces an empty collection with the given invoices and persists.
// Non-empty stores refuse to be seeded.
func (s *InvoiceStore) Seed(ctx context.Context, invoices []domain.Invoice) error {
	if len(s.invoices) > 0 {
		return errors.New("store already has invoices, refusing to seed")
	}

	seen := make(map[string]bool, len(invoices))
	seeded := make([]domain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.ID == "" || seen[inv.ID] {
			id, err := s.generateID()
			if err != nil {
				return err
			}
			inv.ID = id
		}
		seen[inv.ID] = true
		inv.Recalculate()
		seeded = append(seeded, inv)
	}

	s.invoices = seeded
	if err := s.persist(ctx); err != nil {
		s.invoices = nil
		return err
	}

	s.log.Info().Int("count", len(seeded)).Msg("store seeded")
	return nil
}

func (s *InvoiceStore) indexOf(id string) int {
	for i, inv := range s.invoices {
		if inv.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the whole collection through to the repository
func (s *InvoiceStore) persist(ctx context.Context) error {
	if err := s.repo.SaveAll(ctx, s.invoices); err != nil {
		s.log.Error().Err(err).Msg("failed to persist invoices")
		return err
	}
	return nil
}

// generateID produces a two-letter, four-digit id like "RT3080", retrying
// until it is unique within the collection
func (s *InvoiceStore) generateID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}

		letters := []byte{
			'A' + buf[0]%26,
			'A' + buf[1]%26,
		}
		num := (int(buf[2])<<8 | int(buf[3])) % 10000
		id := fmt.Sprintf("%s%04d", letters, num)

		if s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDGeneration
}

func (s *InvoiceStore) notifyRemoved(id string) {
	for _, o := range s.observers {
		o.InvoiceRemoved(id)
	}
}

func (s *InvoiceStore) notifyStatusChanged(id string, status domain.Status) {
	for _, o := range s.observers {
		o.InvoiceStatusChanged(id, status)
	}
}

func cloneItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}
