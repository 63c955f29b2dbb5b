package billkit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	ierr "github.com/billkit/billkit-go/errors"
	"github.com/billkit/billkit-go/internal/validator"
)

// QuoteCreatePayload describes one quote to generate.
type QuoteCreatePayload struct {
	CreatePayload

	QuoteNumber string     `json:"quote_number" validate:"required"`
	QuoteDate   *string    `json:"quote_date,omitempty"`
	Items       []LineItem `json:"items"`
}

// Validate checks required fields, validates every line item and
// fills in the payload defaults.
func (p *QuoteCreatePayload) Validate() error {
	if err := validator.ValidateRequest(p); err != nil {
		return err
	}
	if err := validateItems(p.Items); err != nil {
		return err
	}
	return p.normalize()
}

var quoteCreateKnownKeys = append([]string{
	"quote_number", "quote_date", "items",
}, createPayloadKnownKeys...)

type quoteCreatePayloadAlias QuoteCreatePayload

func (p QuoteCreatePayload) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(quoteCreatePayloadAlias(p), p.Extra)
}

func (p *QuoteCreatePayload) UnmarshalJSON(data []byte) error {
	var alias quoteCreatePayloadAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*p = QuoteCreatePayload(alias)

	extra, err := unmarshalExtra(data, quoteCreateKnownKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	return nil
}

// QuoteSummary is the lightweight shape returned by List.
type QuoteSummary struct {
	FileID      string `json:"file_id"`
	CreatedAt   string `json:"created_at"`
	ClientName  string `json:"client_name"`
	QuoteNumber string `json:"quote_number"`
	Status      string `json:"status,omitempty"`
}

// QuoteDocument is the full stored payload returned by Get.
type QuoteDocument struct {
	FileID          string     `json:"file_id"`
	CreatedAt       string     `json:"created_at"`
	ClientName      string     `json:"client_name"`
	ClientEmail     string     `json:"client_email,omitempty"`
	ClientAddress   string     `json:"client_address,omitempty"`
	QuoteNumber     string     `json:"quote_number"`
	ReferenceNumber string     `json:"reference_number,omitempty"`
	QuoteDate       string     `json:"quote_date,omitempty"`
	CurrencyCode    string     `json:"currency_code,omitempty"`
	CurrencySymbol  string     `json:"currency_symbol,omitempty"`
	Status          string     `json:"status,omitempty"`
	Items           []LineItem `json:"items,omitempty"`
}

// ConvertQuoteRequest turns a stored quote into an invoice. When
// InvoiceNumber is nil the account's default naming convention for
// conversions is used.
type ConvertQuoteRequest struct {
	FileID        string  `json:"file_id" validate:"required"`
	UploadToCloud bool    `json:"upload_to_s3"`
	InvoiceNumber *string `json:"invoice_number,omitempty"`
}

// ConvertQuoteResponse describes the invoice created from a quote.
type ConvertQuoteResponse struct {
	FileID        string `json:"file_id"`
	InvoiceNumber string `json:"invoice_number"`
}

// QuotesService exposes the quote operations of the BillKit API.
type QuotesService struct {
	documentsService
}

func newQuotesService(c *Client) *QuotesService {
	return &QuotesService{
		documentsService: documentsService{
			client:   c,
			entity:   "quotes",
			csvField: "quote_csv",
		},
	}
}

// Create generates a quote PDF. When the payload keeps the default
// UploadToCloud=true the returned DocumentResponse carries the file
// id of the stored copy.
func (s *QuotesService) Create(ctx context.Context, payload *QuoteCreatePayload) (*DocumentResponse, error) {
	if payload == nil {
		return nil, ierr.NewError("quote payload is required").
			Mark(ierr.ErrValidation)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	s.client.logger.Infow("creating quote",
		"quote_number", payload.QuoteNumber,
		"client_name", payload.ClientName,
		"items_count", len(payload.Items))

	return s.createDocument(ctx, payload)
}

// List returns stored quote summaries, newest first. Zero limit and
// offset leave paging to the server defaults.
func (s *QuotesService) List(ctx context.Context, limit, offset int) ([]QuoteSummary, error) {
	var response []QuoteSummary
	err := s.client.makeRequest(ctx, http.MethodGet, "quotes", s.listQuery(limit, offset), nil, &response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Get returns the full stored payload of a quote.
func (s *QuotesService) Get(ctx context.Context, fileID string) (*QuoteDocument, error) {
	if fileID == "" {
		return nil, errMissingFileID()
	}

	var response QuoteDocument
	err := s.client.makeRequest(ctx, http.MethodGet, fmt.Sprintf("quotes/by-id/%s", fileID), nil, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ConvertToInvoice creates an invoice from a stored quote.
func (s *QuotesService) ConvertToInvoice(ctx context.Context, fileID string, invoiceNumber *string, uploadToCloud bool) (*ConvertQuoteResponse, error) {
	if fileID == "" {
		return nil, errMissingFileID()
	}

	s.client.logger.Infow("converting quote to invoice", "file_id", fileID)

	payload := ConvertQuoteRequest{
		FileID:        fileID,
		UploadToCloud: uploadToCloud,
		InvoiceNumber: invoiceNumber,
	}

	var response ConvertQuoteResponse
	err := s.client.makeRequest(ctx, http.MethodPost, "quotes/convert", nil, payload, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// CreateBatchFromJSON submits a batch of quote payloads as one job.
// Every payload is validated before the request is issued.
func (s *QuotesService) CreateBatchFromJSON(ctx context.Context, payloads []QuoteCreatePayload) (*BatchJob, error) {
	if len(payloads) == 0 {
		return nil, errEmptyBatch()
	}
	for idx := range payloads {
		if err := payloads[idx].Validate(); err != nil {
			return nil, err
		}
	}

	s.client.logger.Infow("submitting JSON batch", "entity", s.entity, "count", len(payloads))

	var response BatchJob
	err := s.client.makeRequest(ctx, http.MethodPost, "batch/quotes/json", nil, payloads, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}
