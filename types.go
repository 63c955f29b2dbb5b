package billkit

import (
	ierr "github.com/billkit/billkit-go/errors"
	"github.com/samber/lo"
)

// DiscountType represents the type of discount applied to a line item
// or to a whole document. The zero value means no discount.
type DiscountType string

const (
	// DiscountTypeNone represents the absence of a discount
	DiscountTypeNone DiscountType = ""
	// DiscountTypePercentage represents a percentage-based discount (50 means 50%)
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeFixed represents a fixed amount discount
	DiscountTypeFixed DiscountType = "fixed"
)

func (t DiscountType) String() string {
	return string(t)
}

func (t DiscountType) Validate() error {
	allowed := []DiscountType{
		DiscountTypeNone,
		DiscountTypePercentage,
		DiscountTypeFixed,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid discount type").
			WithHint("Please provide a valid discount type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceStatus represents the payment state of a stored invoice
type InvoiceStatus string

const (
	InvoiceStatusNotPaid InvoiceStatus = "not_paid"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusNotPaid,
		InvoiceStatusPaid,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Invoice status must be either 'not_paid' or 'paid'").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DocumentStyle is the name of a built-in or custom document template.
// Custom template names created via TemplatesService are also accepted.
type DocumentStyle string

const (
	StyleClassicLeftLogo             DocumentStyle = "Classic Left Logo"
	StyleModernCenteredLogo          DocumentStyle = "Modern Centered Logo"
	StyleCompactSingleColumn         DocumentStyle = "Compact Single-Column"
	StyleDetailedBusinessVATTaxHeavy DocumentStyle = "Detailed Business (VAT/Tax Heavy)"
	StyleServicesTimeTracking        DocumentStyle = "Services / Time-Tracking Invoice"
	StyleProductItemised             DocumentStyle = "Product / Itemised Invoice"
	StyleCreativeAgency              DocumentStyle = "Creative / Agency Style"
	StyleRetainerSubscription        DocumentStyle = "Retainer / Subscription Invoice"
	StyleMinimalMonochrome           DocumentStyle = "Minimal Monochrome"
	StyleBoldRightLogo               DocumentStyle = "Bold Right-Logo Layout"
)

const (
	// DefaultCurrencyCode is applied when a create payload does not set one
	DefaultCurrencyCode = "GBP"

	// DefaultStyle is applied when a create payload does not set one
	DefaultStyle = StyleClassicLeftLogo
)
