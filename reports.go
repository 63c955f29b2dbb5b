package billkit

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

// ReportSummary aggregates invoice revenue for one currency.
type ReportSummary struct {
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
	OverdueCount int             `json:"overdueCount"`
}

// PeriodItem is one bucket of a period breakdown.
type PeriodItem struct {
	Period string          `json:"period"`
	Total  decimal.Decimal `json:"total"`
	Count  int             `json:"count"`
}

// LabelItem is one bucket of a by-client or by-status breakdown.
type LabelItem struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// ByPeriod groups revenue into daily, weekly, monthly and yearly
// buckets.
type ByPeriod struct {
	Daily   []PeriodItem `json:"daily"`
	Weekly  []PeriodItem `json:"weekly"`
	Monthly []PeriodItem `json:"monthly"`
	Yearly  []PeriodItem `json:"yearly"`
}

// Currency describes one currency in use across saved invoices.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// RevenueReport is the revenue aggregation computed server-side for
// one currency.
type RevenueReport struct {
	CurrencyCode   string        `json:"currencyCode"`
	CurrencySymbol string        `json:"currencySymbol"`
	Summary        ReportSummary `json:"summary"`
	ByPeriod       ByPeriod      `json:"byPeriod"`
	ByClient       []LabelItem   `json:"byClient"`
	ByStatus       []LabelItem   `json:"byStatus"`

	// AvailableCurrencies lists the currencies used in saved invoices
	AvailableCurrencies []Currency `json:"availableCurrencies"`
}

// ReportsService exposes revenue reporting.
type ReportsService struct {
	client *Client
}

// GetRevenue returns the revenue report for a currency. An empty
// currency lets the server apply the account's default.
func (s *ReportsService) GetRevenue(ctx context.Context, currency string) (*RevenueReport, error) {
	var query map[string]string
	if currency != "" {
		query = map[string]string{"currency": currency}
	}

	var response RevenueReport
	err := s.client.makeRequest(ctx, http.MethodGet, "reports/revenue", query, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}
