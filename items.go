package billkit

import (
	"encoding/json"

	ierr "github.com/billkit/billkit-go/errors"
	"github.com/shopspring/decimal"
)

// LineItem is one line of an invoice or quote. Monetary values are
// arbitrary-precision decimals and serialize as strings on the wire.
//
// LineItem is an open record: unknown JSON fields survive a
// decode/encode round trip through Extra, and explicit fields win on
// key collision.
type LineItem struct {
	Description   string          `json:"description"`
	Qty           int             `json:"qty"`
	Price         decimal.Decimal `json:"price"`
	Tax           decimal.Decimal `json:"tax"`
	DiscountType  DiscountType    `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value"`

	// Extra carries fields not covered by the typed ones
	Extra map[string]any `json:"-"`
}

// Validate checks the line item and normalizes its discount in place.
// After a successful call the discount invariant holds: no discount
// type means a zero discount value, and a percentage discount never
// exceeds 100.
func (i *LineItem) Validate() error {
	if i.Description == "" {
		return ierr.NewError("line item description is required").
			WithHint("Please provide a non-empty description").
			Mark(ierr.ErrValidation)
	}
	if i.Qty <= 0 {
		return ierr.NewError("line item qty must be greater than zero").
			WithReportableDetails(map[string]any{
				"qty": i.Qty,
			}).
			Mark(ierr.ErrValidation)
	}
	if !i.Price.IsPositive() {
		return ierr.NewError("line item price must be greater than zero").
			WithReportableDetails(map[string]any{
				"price": i.Price.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if i.Tax.IsNegative() {
		return ierr.NewError("line item tax must be non-negative").
			WithReportableDetails(map[string]any{
				"tax": i.Tax.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	normalized, err := normalizeDiscount("items.discount_value", i.DiscountType, i.DiscountValue)
	if err != nil {
		return err
	}
	i.DiscountValue = normalized
	return nil
}

// normalizeDiscount enforces the discount invariant shared by line
// items and document-level discounts: no type forces the value to
// zero, a percentage is capped at 100, and a fixed discount accepts
// any non-negative value. It runs after all other field checks so
// downstream consumers can assume the invariant holds.
func normalizeDiscount(field string, discountType DiscountType, value decimal.Decimal) (decimal.Decimal, error) {
	if err := discountType.Validate(); err != nil {
		return decimal.Zero, err
	}

	if discountType == DiscountTypeNone {
		return decimal.Zero, nil
	}

	if value.IsNegative() {
		return decimal.Zero, ierr.NewError("discount value must be non-negative").
			WithReportableDetails(map[string]any{
				"field": field,
				"value": value.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if discountType == DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, ierr.NewError("percentage discount must be 100 or less").
			WithReportableDetails(map[string]any{
				"field": field,
				"value": value.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return value, nil
}

// lineItemAlias avoids MarshalJSON/UnmarshalJSON recursion
type lineItemAlias LineItem

var lineItemKnownKeys = []string{
	"description", "qty", "price", "tax", "discount_type", "discount_value",
}

func (i LineItem) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(lineItemAlias(i), i.Extra)
}

func (i *LineItem) UnmarshalJSON(data []byte) error {
	var alias lineItemAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*i = LineItem(alias)

	extra, err := unmarshalExtra(data, lineItemKnownKeys)
	if err != nil {
		return err
	}
	i.Extra = extra
	return nil
}

// marshalWithExtra serializes v and merges the extra bag at the top
// level, with v's own fields taking precedence on key collision.
func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return data, nil
	}

	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, exists := merged[k]; exists {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

// unmarshalExtra collects the top-level JSON fields not claimed by the
// typed struct.
func unmarshalExtra(data []byte, knownKeys []string) (map[string]any, error) {
	all := make(map[string]any)
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range knownKeys {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}
