package billkit

import (
	"encoding/json"
	"testing"

	ierr "github.com/billkit/billkit-go/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvoicePayload() *InvoiceCreatePayload {
	return &InvoiceCreatePayload{
		CreatePayload: CreatePayload{
			ClientName:  "Jane Doe",
			ClientEmail: "jane@example.com",
		},
		InvoiceNumber: "INV-1",
		DueDate:       "2025-01-01",
		Items:         []LineItem{validItem()},
	}
}

func TestInvoiceCreatePayload_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*InvoiceCreatePayload)
		wantErr bool
	}{
		{"valid payload", func(p *InvoiceCreatePayload) {}, false},
		{"missing client name", func(p *InvoiceCreatePayload) { p.ClientName = "" }, true},
		{"missing client email", func(p *InvoiceCreatePayload) { p.ClientEmail = "" }, true},
		{"invalid client email", func(p *InvoiceCreatePayload) { p.ClientEmail = "not-an-email" }, true},
		{"missing invoice number", func(p *InvoiceCreatePayload) { p.InvoiceNumber = "" }, true},
		{"missing due date", func(p *InvoiceCreatePayload) { p.DueDate = "" }, true},
		{"no items", func(p *InvoiceCreatePayload) { p.Items = nil }, true},
		{"invalid item", func(p *InvoiceCreatePayload) { p.Items[0].Qty = 0 }, true},
		{
			"document percentage discount above 100",
			func(p *InvoiceCreatePayload) {
				p.DiscountType = DiscountTypePercentage
				p.DiscountValue = decimal.RequireFromString("100.01")
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validInvoicePayload()
			tt.mutate(payload)

			err := payload.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestInvoiceCreatePayload_Defaults(t *testing.T) {
	payload := validInvoicePayload()
	require.NoError(t, payload.Validate())

	assert.Equal(t, DefaultCurrencyCode, payload.CurrencyCode)
	assert.Equal(t, DefaultStyle, payload.Style)
	require.NotNil(t, payload.UploadToCloud)
	assert.True(t, *payload.UploadToCloud)
}

func TestInvoiceCreatePayload_ExcludeUnset(t *testing.T) {
	payload := validInvoicePayload()
	payload.Items[0].DiscountType = DiscountTypeNone
	payload.Items[0].DiscountValue = decimal.NewFromInt(50)
	require.NoError(t, payload.Validate())

	out, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	// Required and defaulted fields are present
	assert.Equal(t, "Jane Doe", decoded["client_name"])
	assert.Equal(t, "INV-1", decoded["invoice_number"])
	assert.Equal(t, "2025-01-01", decoded["due_date"])
	assert.Equal(t, "GBP", decoded["currency_code"])
	assert.Equal(t, string(DefaultStyle), decoded["style"])
	assert.Equal(t, true, decoded["upload_to_s3"])

	// Unset optional fields are omitted entirely
	for _, key := range []string{
		"invoice_date", "client_address", "reference_number",
		"from_name", "from_email", "from_address", "notes", "terms",
		"discount_type",
	} {
		_, exists := decoded[key]
		assert.False(t, exists, "expected %q to be omitted", key)
	}

	// Item serialization: qty is a number, the normalized discount is zero
	items, ok := decoded["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, float64(2), item["qty"])
	assert.Equal(t, "0", item["discount_value"])
}

func TestInvoiceCreatePayload_ExplicitDefaultIncluded(t *testing.T) {
	payload := validInvoicePayload()
	payload.UploadToCloud = lo.ToPtr(false)
	payload.Notes = lo.ToPtr("")
	require.NoError(t, payload.Validate())

	out, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	// Explicitly set values are emitted even when they equal a default
	assert.Equal(t, false, decoded["upload_to_s3"])

	notes, exists := decoded["notes"]
	assert.True(t, exists, "explicitly set empty notes must be emitted")
	assert.Equal(t, "", notes)
}

func TestInvoiceCreatePayload_ExtraMerge(t *testing.T) {
	payload := validInvoicePayload()
	payload.Extra = map[string]any{
		"po_number":   "PO-77",
		"client_name": "Impostor", // collides with a typed field
	}
	require.NoError(t, payload.Validate())

	out, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Equal(t, "PO-77", decoded["po_number"])
	assert.Equal(t, "Jane Doe", decoded["client_name"], "typed field wins on collision")
}

func TestQuoteCreatePayload_Validate(t *testing.T) {
	payload := &QuoteCreatePayload{
		CreatePayload: CreatePayload{
			ClientName:  "Jane Doe",
			ClientEmail: "jane@example.com",
		},
		QuoteNumber: "Q-1",
		Items:       []LineItem{validItem()},
	}
	require.NoError(t, payload.Validate())
	assert.Equal(t, DefaultCurrencyCode, payload.CurrencyCode)

	out, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Q-1", decoded["quote_number"])
	_, exists := decoded["quote_date"]
	assert.False(t, exists, "unset quote_date must be omitted")

	payload.QuoteNumber = ""
	require.Error(t, payload.Validate())
}
