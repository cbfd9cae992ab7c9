package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/andy/billfold/internal/domain"
)

// formDateLayout is the calendar-date format accepted from the form
const formDateLayout = "2006-01-02"

// amountPattern matches a non-negative decimal number with up to two
// decimal places. Zip codes, payment terms, quantities and prices all
// validate against it.
var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// FieldError is a single user-correctable validation failure
type FieldError struct {
	Field   string // stable key for per-field markers, e.g. "ClientName" or "item.0.name"
	Message string
}

// ValidationErrors aggregates every violation found in one submit.
// Violations are collected, never short-circuited.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 1 {
		return v[0].Message
	}
	return fmt.Sprintf("%d validation errors", len(v))
}

// Has reports whether the given field key has a violation
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// ItemForm holds the raw inputs of one line-item row
type ItemForm struct {
	Name     string
	Quantity string
	Price    string
}

// Form holds the raw string values collected from the invoice drawer.
// Validation runs on the raw strings; parsing into an Input happens only
// after validation passes.
type Form struct {
	SenderStreet string `label:"Street address (from)" validate:"required"`
	SenderCity   string `label:"City (from)" validate:"required"`
	SenderZip    string `label:"Zip code (from)" validate:"required,amount"`
	SenderState  string `label:"State (from)" validate:"required"`

	ClientName   string `label:"Client's name" validate:"required"`
	ClientEmail  string `label:"Client's email" validate:"required"`
	ClientStreet string `label:"Street address (to)" validate:"required"`
	ClientCity   string `label:"City (to)" validate:"required"`
	ClientZip    string `label:"Zip code (to)" validate:"required,amount"`
	ClientState  string `label:"State (to)" validate:"required"`

	InvoiceDate  string `label:"Invoice date" validate:"required,date"`
	PaymentTerms string `label:"Payment terms" validate:"required,amount"`
	Description  string `label:"Project description" validate:"required"`

	Items []ItemForm `validate:"-"`
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		return amountPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(formDateLayout, fl.Field().String())
		return err == nil
	})

	// Error messages use the label tag instead of the Go field name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		return field.Name
	})

	return v
}

// Normalize trims surrounding whitespace from every field
func (f *Form) Normalize() {
	f.SenderStreet = strings.TrimSpace(f.SenderStreet)
	f.SenderCity = strings.TrimSpace(f.SenderCity)
	f.SenderZip = strings.TrimSpace(f.SenderZip)
	f.SenderState = strings.TrimSpace(f.SenderState)
	f.ClientName = strings.TrimSpace(f.ClientName)
	f.ClientEmail = strings.TrimSpace(f.ClientEmail)
	f.ClientStreet = strings.TrimSpace(f.ClientStreet)
	f.ClientCity = strings.TrimSpace(f.ClientCity)
	f.ClientZip = strings.TrimSpace(f.ClientZip)
	f.ClientState = strings.TrimSpace(f.ClientState)
	f.InvoiceDate = strings.TrimSpace(f.InvoiceDate)
	f.PaymentTerms = strings.TrimSpace(f.PaymentTerms)
	f.Description = strings.TrimSpace(f.Description)
	for i := range f.Items {
		f.Items[i].Name = strings.TrimSpace(f.Items[i].Name)
		f.Items[i].Quantity = strings.TrimSpace(f.Items[i].Quantity)
		f.Items[i].Price = strings.TrimSpace(f.Items[i].Price)
	}
}

// Validate runs the full submission checks and returns every violation.
// A nil result means the form may be submitted.
func (f *Form) Validate() ValidationErrors {
	f.Normalize()

	var errs ValidationErrors
	errs = append(errs, f.validateStruct()...)
	errs = append(errs, f.validateItems(true)...)
	return errs
}

// ValidateDraft runs the relaxed draft checks: at least one line item is
// still required, and any non-empty numeric field must parse, but empty
// top-level fields are allowed.
func (f *Form) ValidateDraft() ValidationErrors {
	f.Normalize()

	var errs ValidationErrors
	numericFields := []struct {
		key   string
		value string
	}{
		{"SenderZip", f.SenderZip},
		{"ClientZip", f.ClientZip},
		{"PaymentTerms", f.PaymentTerms},
	}
	for _, field := range numericFields {
		if field.value != "" && !amountPattern.MatchString(field.value) {
			errs = append(errs, FieldError{Field: field.key, Message: labelFor(field.key) + " must be a non-negative number"})
		}
	}
	if f.InvoiceDate != "" {
		if _, err := time.Parse(formDateLayout, f.InvoiceDate); err != nil {
			errs = append(errs, FieldError{Field: "InvoiceDate", Message: labelFor("InvoiceDate") + " must be a valid date"})
		}
	}
	errs = append(errs, f.validateItems(false)...)
	return errs
}

func (f *Form) validateStruct() ValidationErrors {
	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Field: "form", Message: err.Error()}}
	}

	errs := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fe.Field() + " can't be empty"
		case "amount":
			msg = fe.Field() + " must be a non-negative number"
		case "date":
			msg = fe.Field() + " must be a valid date"
		default:
			msg = fe.Field() + " is invalid"
		}
		errs = append(errs, FieldError{Field: fe.StructField(), Message: msg})
	}
	return errs
}

// validateItems checks the line-item rows. The empty-list case is a hard
// failure of its own, distinct from per-field errors.
func (f *Form) validateItems(requireFields bool) ValidationErrors {
	if len(f.Items) == 0 {
		return ValidationErrors{{Field: "items", Message: "At least one item must be added"}}
	}

	var errs ValidationErrors
	for i, item := range f.Items {
		n := i + 1
		if item.Name == "" && requireFields {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("item.%d.name", i),
				Message: fmt.Sprintf("Item %d name can't be empty", n),
			})
		}
		errs = append(errs, validateItemNumber(item.Quantity, fmt.Sprintf("item.%d.quantity", i),
			fmt.Sprintf("Item %d quantity", n), requireFields)...)
		errs = append(errs, validateItemNumber(item.Price, fmt.Sprintf("item.%d.price", i),
			fmt.Sprintf("Item %d price", n), requireFields)...)
	}
	return errs
}

func validateItemNumber(value, key, label string, required bool) ValidationErrors {
	if value == "" {
		if required {
			return ValidationErrors{{Field: key, Message: label + " can't be empty"}}
		}
		return nil
	}
	if !amountPattern.MatchString(value) {
		return ValidationErrors{{Field: key, Message: label + " must be a non-negative number"}}
	}
	return nil
}

// labelFor resolves the display label of a Form field by struct tag
func labelFor(field string) string {
	t := reflect.TypeOf(Form{})
	if sf, ok := t.FieldByName(field); ok {
		if label := sf.Tag.Get("label"); label != "" {
			return label
		}
	}
	return field
}

// ToInput parses a validated form into a store Input. Empty numeric and
// date fields (legal on drafts) become zero values; the caller supplies
// draft defaults before conversion.
func (f *Form) ToInput(status domain.Status) (Input, error) {
	var createdAt time.Time
	if f.InvoiceDate != "" {
		var err error
		createdAt, err = time.Parse(formDateLayout, f.InvoiceDate)
		if err != nil {
			return Input{}, fmt.Errorf("bad invoice date: %w", err)
		}
	}

	terms := 0
	if f.PaymentTerms != "" {
		d, err := decimal.NewFromString(f.PaymentTerms)
		if err != nil {
			return Input{}, fmt.Errorf("bad payment terms: %w", err)
		}
		terms = int(d.IntPart())
	}

	items := make([]domain.LineItem, 0, len(f.Items))
	for _, item := range f.Items {
		li := domain.LineItem{Name: item.Name}
		if item.Quantity != "" {
			q, err := decimal.NewFromString(item.Quantity)
			if err != nil {
				return Input{}, fmt.Errorf("bad item quantity: %w", err)
			}
			li.Quantity = q
		}
		if item.Price != "" {
			p, err := decimal.NewFromString(item.Price)
			if err != nil {
				return Input{}, fmt.Errorf("bad item price: %w", err)
			}
			li.Price = p
		}
		items = append(items, li)
	}

	return Input{
		CreatedAt:     createdAt,
		PaymentTerms:  terms,
		Description:   f.Description,
		ClientName:    f.ClientName,
		ClientEmail:   f.ClientEmail,
		SenderAddress: domain.Address{Street: f.SenderStreet, City: f.SenderCity, ZipCode: f.SenderZip, State: f.SenderState},
		ClientAddress: domain.Address{Street: f.ClientStreet, City: f.ClientCity, ZipCode: f.ClientZip, State: f.ClientState},
		Status:        status,
		Items:         items,
	}, nil
}

// FormFromInvoice populates a form from an existing invoice for editing
func FormFromInvoice(inv domain.Invoice) Form {
	items := make([]ItemForm, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = ItemForm{
			Name:     it.Name,
			Quantity: it.Quantity.String(),
			Price:    it.Price.String(),
		}
	}
	return Form{
		SenderStreet: inv.SenderAddress.Street,
		SenderCity:   inv.SenderAddress.City,
		SenderZip:    inv.SenderAddress.ZipCode,
		SenderState:  inv.SenderAddress.State,
		ClientName:   inv.ClientName,
		ClientEmail:  inv.ClientEmail,
		ClientStreet: inv.ClientAddress.Street,
		ClientCity:   inv.ClientAddress.City,
		ClientZip:    inv.ClientAddress.ZipCode,
		ClientState:  inv.ClientAddress.State,
		InvoiceDate:  inv.CreatedAt.Format(formDateLayout),
		PaymentTerms: fmt.Sprintf("%d", inv.PaymentTerms),
		Description:  inv.Description,
		Items:        items,
	}
}
