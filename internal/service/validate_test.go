package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/billfold/internal/domain"
)

func completeForm() Form {
	return Form{
		SenderStreet: "19 Union Terrace",
		SenderCity:   "London",
		SenderZip:    "1015",
		SenderState:  "United Kingdom",
		ClientName:   "Alex Grim",
		ClientEmail:  "alexgrim@mail.com",
		ClientStreet: "84 Church Way",
		ClientCity:   "Bradford",
		ClientZip:    "2301",
		ClientState:  "United Kingdom",
		InvoiceDate:  "2024-01-01",
		PaymentTerms: "30",
		Description:  "Graphic Design",
		Items: []ItemForm{
			{Name: "Banner Design", Quantity: "1", Price: "156.00"},
		},
	}
}

func TestValidate_Complete(t *testing.T) {
	form := completeForm()
	if errs := form.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	form := completeForm()
	form.ClientName = ""
	form.ClientZip = "abc"
	form.InvoiceDate = "01/01/2024"

	errs := form.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	for _, field := range []string{"ClientName", "ClientZip", "InvoiceDate"} {
		if !errs.Has(field) {
			t.Errorf("expected a violation for %s", field)
		}
	}
}

func TestValidate_ThreeDistinctViolations(t *testing.T) {
	form := completeForm()
	form.Description = ""
	form.ClientZip = "not-a-number"
	form.Items = nil

	errs := form.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	for _, field := range []string{"Description", "ClientZip", "items"} {
		if !errs.Has(field) {
			t.Errorf("expected a violation for %s", field)
		}
	}
}

func TestValidate_EmptyItems(t *testing.T) {
	form := completeForm()
	form.Items = nil

	errs := form.Validate()
	if !errs.Has("items") {
		t.Fatalf("expected the items violation, got %v", errs)
	}
	if errs[0].Message != "At least one item must be added" {
		t.Errorf("message = %q", errs[0].Message)
	}
}

func TestValidate_ItemFields(t *testing.T) {
	form := completeForm()
	form.Items = []ItemForm{
		{Name: "", Quantity: "x", Price: ""},
	}

	errs := form.Validate()
	for _, field := range []string{"item.0.name", "item.0.quantity", "item.0.price"} {
		if !errs.Has(field) {
			t.Errorf("expected a violation for %s, got %v", field, errs)
		}
	}
}

func TestValidate_TrimsWhitespace(t *testing.T) {
	form := completeForm()
	form.ClientName = "   "

	errs := form.Validate()
	if !errs.Has("ClientName") {
		t.Fatalf("whitespace-only name should fail required, got %v", errs)
	}
}

func TestValidateDraft_AllowsEmptyFields(t *testing.T) {
	form := Form{
		Items: []ItemForm{{Name: "", Quantity: "", Price: ""}},
	}

	if errs := form.ValidateDraft(); len(errs) != 0 {
		t.Fatalf("expected no errors for a bare draft, got %v", errs)
	}
}

func TestValidateDraft_StillRequiresAnItem(t *testing.T) {
	form := Form{}
	errs := form.ValidateDraft()
	if !errs.Has("items") {
		t.Fatalf("drafts still need one item row, got %v", errs)
	}
}

func TestValidateDraft_NonEmptyNumericsMustParse(t *testing.T) {
	form := Form{
		PaymentTerms: "soon",
		InvoiceDate:  "yesterday",
		Items:        []ItemForm{{Quantity: "two", Price: "9.999"}},
	}

	errs := form.ValidateDraft()
	for _, field := range []string{"PaymentTerms", "InvoiceDate", "item.0.quantity", "item.0.price"} {
		if !errs.Has(field) {
			t.Errorf("expected a violation for %s, got %v", field, errs)
		}
	}
}

func TestValidateDraft_StableErrorOrder(t *testing.T) {
	form := Form{
		SenderZip:    "bad",
		ClientZip:    "worse",
		PaymentTerms: "soon",
		Items:        []ItemForm{{Name: "Sketch"}},
	}

	want := []string{"SenderZip", "ClientZip", "PaymentTerms"}
	for run := 0; run < 10; run++ {
		errs := form.ValidateDraft()
		if len(errs) != len(want) {
			t.Fatalf("expected %d errors, got %d: %v", len(want), len(errs), errs)
		}
		for i, field := range want {
			if errs[i].Field != field {
				t.Fatalf("run %d: errs[%d] = %s, want %s", run, i, errs[i].Field, field)
			}
		}
	}
}

func TestToInput(t *testing.T) {
	form := completeForm()
	form.Items = append(form.Items, ItemForm{Name: "Email Design", Quantity: "2", Price: "200"})

	input, err := form.ToInput(domain.StatusPending)
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}

	if want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC); !input.CreatedAt.Equal(want) {
		t.Errorf("createdAt = %s, want %s", input.CreatedAt, want)
	}
	if input.PaymentTerms != 30 {
		t.Errorf("terms = %d, want 30", input.PaymentTerms)
	}
	if input.Status != domain.StatusPending {
		t.Errorf("status = %s", input.Status)
	}
	if len(input.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(input.Items))
	}
	if want := decimal.NewFromInt(2); !input.Items[1].Quantity.Equal(want) {
		t.Errorf("quantity = %s, want %s", input.Items[1].Quantity, want)
	}
	if want := decimal.NewFromInt(200); !input.Items[1].Price.Equal(want) {
		t.Errorf("price = %s, want %s", input.Items[1].Price, want)
	}
}

func TestToInput_FractionalQuantity(t *testing.T) {
	form := completeForm()
	form.Items = []ItemForm{{Name: "Consulting", Quantity: "2.5", Price: "100"}}

	if errs := form.Validate(); len(errs) != 0 {
		t.Fatalf("fractional quantity should validate, got %v", errs)
	}

	input, err := form.ToInput(domain.StatusPending)
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	if want := decimal.RequireFromString("2.5"); !input.Items[0].Quantity.Equal(want) {
		t.Errorf("quantity = %s, want %s", input.Items[0].Quantity, want)
	}
}

func TestToInput_EmptyOptionalFields(t *testing.T) {
	form := Form{
		Items: []ItemForm{{Name: "Sketch", Quantity: "", Price: ""}},
	}

	input, err := form.ToInput(domain.StatusDraft)
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	if !input.CreatedAt.IsZero() {
		t.Errorf("createdAt should be zero, got %s", input.CreatedAt)
	}
	if input.PaymentTerms != 0 {
		t.Errorf("terms = %d, want 0", input.PaymentTerms)
	}
	if !input.Items[0].Quantity.IsZero() || !input.Items[0].Price.IsZero() {
		t.Errorf("item numerics should be zero: %+v", input.Items[0])
	}
}

func TestFormFromInvoice_RoundTrip(t *testing.T) {
	inv := domain.Invoice{
		ID:           "AB1234",
		CreatedAt:    time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
		PaymentTerms: 7,
		Description:  "Landing page",
		ClientName:   "Mellisa Clarke",
		ClientEmail:  "mellisa.clarke@example.com",
		Status:       domain.StatusPending,
		Items: []domain.LineItem{
			{Name: "Web Design", Quantity: decimal.NewFromInt(1), Price: decimal.RequireFromString("6155.91")},
		},
	}

	form := FormFromInvoice(inv)
	if form.InvoiceDate != "2024-02-10" {
		t.Errorf("invoiceDate = %q", form.InvoiceDate)
	}
	if form.PaymentTerms != "7" {
		t.Errorf("paymentTerms = %q", form.PaymentTerms)
	}
	if len(form.Items) != 1 || form.Items[0].Price != "6155.91" {
		t.Errorf("items = %+v", form.Items)
	}

	input, err := form.ToInput("")
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	if !input.CreatedAt.Equal(inv.CreatedAt) {
		t.Errorf("createdAt = %s, want %s", input.CreatedAt, inv.CreatedAt)
	}
	if !input.Items[0].Price.Equal(inv.Items[0].Price) {
		t.Errorf("price = %s, want %s", input.Items[0].Price, inv.Items[0].Price)
	}
}
