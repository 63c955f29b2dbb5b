package billkit

import (
	ierr "github.com/billkit/billkit-go/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreatePayload holds the fields shared by invoice and quote creation.
// Optional fields are pointers so that serialization can distinguish
// "never set" (omitted) from "explicitly set to a default" (emitted);
// the server relies on that distinction for partial interpretation.
//
// Extra is an open bag of additional fields merged verbatim at the top
// level of the outbound JSON, with typed fields winning on collision.
type CreatePayload struct {
	ClientName  string `json:"client_name" validate:"required"`
	ClientEmail string `json:"client_email" validate:"required,email"`

	ClientAddress *string `json:"client_address,omitempty"`

	// CurrencyCode defaults to "GBP" when left empty
	CurrencyCode string `json:"currency_code,omitempty"`

	// Style defaults to "Classic Left Logo" when left empty. Custom
	// template names are accepted too.
	Style DocumentStyle `json:"style,omitempty"`

	ReferenceNumber *string `json:"reference_number,omitempty"`

	FromName    *string `json:"from_name,omitempty"`
	FromEmail   *string `json:"from_email,omitempty"`
	FromAddress *string `json:"from_address,omitempty"`

	Notes *string `json:"notes,omitempty"`
	Terms *string `json:"terms,omitempty"`

	// Document-level discount. For a percentage discount use 50 for
	// 50%, not 0.5.
	DiscountType  DiscountType    `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value"`

	// UploadToCloud defaults to true; when false the generated PDF is
	// returned but not persisted server-side, so no file id is issued.
	UploadToCloud *bool `json:"upload_to_s3,omitempty"`

	Extra map[string]any `json:"-"`
}

// normalize applies defaults and enforces the document-level discount
// invariant. It runs after struct tag validation of the concrete
// payload, so the shared fields are already known to be present.
func (p *CreatePayload) normalize() error {
	if p.CurrencyCode == "" {
		p.CurrencyCode = DefaultCurrencyCode
	}
	if p.Style == "" {
		p.Style = DefaultStyle
	}
	if p.UploadToCloud == nil {
		p.UploadToCloud = lo.ToPtr(true)
	}

	normalized, err := normalizeDiscount("discount_value", p.DiscountType, p.DiscountValue)
	if err != nil {
		return err
	}
	p.DiscountValue = normalized
	return nil
}

var createPayloadKnownKeys = []string{
	"client_name", "client_email", "client_address", "currency_code", "style",
	"reference_number", "from_name", "from_email", "from_address",
	"notes", "terms", "discount_type", "discount_value", "upload_to_s3",
}

// validateItems runs per-item validation, naming the offending index
// on failure.
func validateItems(items []LineItem) error {
	if len(items) == 0 {
		return ierr.NewError("at least one line item is required").
			WithHint("Please provide one or more items").
			Mark(ierr.ErrValidation)
	}
	for idx := range items {
		if err := items[idx].Validate(); err != nil {
			return ierr.WithError(err).
				WithHintf("Item %d failed validation", idx).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
