package billkit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	ierr "github.com/billkit/billkit-go/errors"
	"github.com/billkit/billkit-go/internal/validator"
)

// InvoiceCreatePayload describes one invoice to generate.
type InvoiceCreatePayload struct {
	CreatePayload

	InvoiceNumber string     `json:"invoice_number" validate:"required"`
	DueDate       string     `json:"due_date" validate:"required"`
	InvoiceDate   *string    `json:"invoice_date,omitempty"`
	Items         []LineItem `json:"items"`
}

// Validate checks required fields, validates every line item and
// fills in the payload defaults. It must pass before the payload is
// sent anywhere.
func (p *InvoiceCreatePayload) Validate() error {
	if err := validator.ValidateRequest(p); err != nil {
		return err
	}
	if err := validateItems(p.Items); err != nil {
		return err
	}
	return p.normalize()
}

var invoiceCreateKnownKeys = append([]string{
	"invoice_number", "due_date", "invoice_date", "items",
}, createPayloadKnownKeys...)

type invoiceCreatePayloadAlias InvoiceCreatePayload

func (p InvoiceCreatePayload) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(invoiceCreatePayloadAlias(p), p.Extra)
}

func (p *InvoiceCreatePayload) UnmarshalJSON(data []byte) error {
	var alias invoiceCreatePayloadAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*p = InvoiceCreatePayload(alias)

	extra, err := unmarshalExtra(data, invoiceCreateKnownKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	return nil
}

// InvoiceSummary is the lightweight shape returned by List.
type InvoiceSummary struct {
	FileID        string        `json:"file_id"`
	CreatedAt     string        `json:"created_at"`
	ClientName    string        `json:"client_name"`
	InvoiceNumber string        `json:"invoice_number"`
	DueDate       string        `json:"due_date"`
	Status        InvoiceStatus `json:"status"`
}

// InvoiceDocument is the full stored payload returned by Get.
type InvoiceDocument struct {
	FileID          string        `json:"file_id"`
	CreatedAt       string        `json:"created_at"`
	ClientName      string        `json:"client_name"`
	ClientEmail     string        `json:"client_email,omitempty"`
	ClientAddress   string        `json:"client_address,omitempty"`
	InvoiceNumber   string        `json:"invoice_number"`
	ReferenceNumber string        `json:"reference_number,omitempty"`
	PONumber        string        `json:"po_number,omitempty"`
	InvoiceDate     string        `json:"invoice_date,omitempty"`
	DueDate         string        `json:"due_date"`
	CurrencyCode    string        `json:"currency_code,omitempty"`
	CurrencySymbol  string        `json:"currency_symbol,omitempty"`
	Status          InvoiceStatus `json:"status"`
	Items           []LineItem    `json:"items,omitempty"`
}

// InvoiceStatusUpdateRequest marks a stored invoice as paid or not
// paid.
type InvoiceStatusUpdateRequest struct {
	FileID string        `json:"file_id"`
	Status InvoiceStatus `json:"status"`
}

// InvoiceStatusUpdateResponse confirms a status change.
type InvoiceStatusUpdateResponse struct {
	FileID string        `json:"fileId"`
	Status InvoiceStatus `json:"status"`
}

// InvoicesService exposes the invoice operations of the BillKit API.
type InvoicesService struct {
	documentsService
}

func newInvoicesService(c *Client) *InvoicesService {
	return &InvoicesService{
		documentsService: documentsService{
			client:   c,
			entity:   "invoices",
			csvField: "invoice_csv",
		},
	}
}

// Create generates an invoice PDF. When the payload keeps the default
// UploadToCloud=true the returned DocumentResponse carries the file
// id of the stored copy.
func (s *InvoicesService) Create(ctx context.Context, payload *InvoiceCreatePayload) (*DocumentResponse, error) {
	if payload == nil {
		return nil, ierr.NewError("invoice payload is required").
			Mark(ierr.ErrValidation)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	s.client.logger.Infow("creating invoice",
		"invoice_number", payload.InvoiceNumber,
		"client_name", payload.ClientName,
		"items_count", len(payload.Items))

	return s.createDocument(ctx, payload)
}

// List returns stored invoice summaries, newest first. Zero limit and
// offset leave paging to the server defaults.
func (s *InvoicesService) List(ctx context.Context, limit, offset int) ([]InvoiceSummary, error) {
	var response []InvoiceSummary
	err := s.client.makeRequest(ctx, http.MethodGet, "invoices", s.listQuery(limit, offset), nil, &response)
	if err != nil {
		return nil, err
	}

	for _, summary := range response {
		if err := summary.Status.Validate(); err != nil {
			return nil, err
		}
	}
	return response, nil
}

// Get returns the full stored payload of an invoice.
func (s *InvoicesService) Get(ctx context.Context, fileID string) (*InvoiceDocument, error) {
	if fileID == "" {
		return nil, errMissingFileID()
	}

	var response InvoiceDocument
	err := s.client.makeRequest(ctx, http.MethodGet, fmt.Sprintf("invoices/by-id/%s", fileID), nil, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// UpdateStatus marks a stored invoice as paid or not paid. The status
// is validated client-side; an invalid value fails before any request
// is issued.
func (s *InvoicesService) UpdateStatus(ctx context.Context, fileID string, status InvoiceStatus) (*InvoiceStatusUpdateResponse, error) {
	if fileID == "" {
		return nil, errMissingFileID()
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	s.client.logger.Infow("updating invoice status", "file_id", fileID, "status", status)

	payload := InvoiceStatusUpdateRequest{
		FileID: fileID,
		Status: status,
	}

	var response InvoiceStatusUpdateResponse
	err := s.client.makeRequest(ctx, http.MethodPatch, "invoices/status", nil, payload, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// CreateBatchFromJSON submits a batch of invoice payloads as one job.
// Every payload is validated before the request is issued.
func (s *InvoicesService) CreateBatchFromJSON(ctx context.Context, payloads []InvoiceCreatePayload) (*BatchJob, error) {
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
	err := s.client.makeRequest(ctx, http.MethodPost, "batch/invoices/json", nil, payloads, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}
