package billkit

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"
)

// BatchJob is returned when a batch of documents is submitted. The
// job runs server-side; poll GetBatchStatus with the job id to follow
// it. WebhookURL is informational passthrough only, the SDK never
// handles webhook delivery.
type BatchJob struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	WebhookURL string `json:"webhook_url"`
}

// TemplateWarning describes a non-fatal mismatch between a batch
// record's payload and the template it was rendered with.
type TemplateWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Params is the union of all unused/mismatched params, kept for
	// backwards compatibility with older API revisions
	Params []string `json:"params,omitempty"`

	TemplateID *string `json:"templateId,omitempty"`

	// PayloadParams are request fields not used by the template
	PayloadParams []string `json:"payloadParams,omitempty"`

	// TemplateParams are variables referenced in the template but not
	// supplied in the payload
	TemplateParams []string `json:"templateParams,omitempty"`
}

// BatchRecord is one generated document of a finished batch job.
// Exactly one of InvoiceNumber or QuoteNumber is set, depending on
// the entity type of the job.
type BatchRecord struct {
	InvoiceNumber string            `json:"invoiceNumber,omitempty"`
	QuoteNumber   string            `json:"quoteNumber,omitempty"`
	S3Key         string            `json:"s3Key"`
	Warnings      []TemplateWarning `json:"warnings,omitempty"`
}

// DocumentNumber returns the generated document number regardless of
// entity type.
func (r BatchRecord) DocumentNumber() string {
	if r.InvoiceNumber != "" {
		return r.InvoiceNumber
	}
	return r.QuoteNumber
}

// BatchStatus is the server-side state of a batch job. TotalCount,
// ImportedCount and Records stay nil until the job reaches a terminal
// status; Error is populated only on terminal failure and is kept
// opaque for caller inspection.
type BatchStatus struct {
	JobID         string          `json:"job_id"`
	Status        string          `json:"status"`
	EntityType    string          `json:"entity_type"`
	Source        string          `json:"source"`
	TotalCount    *int            `json:"total_count"`
	ImportedCount *int            `json:"imported_count"`
	Error         json.RawMessage `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Records       []BatchRecord   `json:"records"`
}

// Terminal reports whether the job reached a final state. After a
// terminal success Records is populated; after a terminal failure
// Error is. The SDK never polls automatically.
func (s *BatchStatus) Terminal() bool {
	return lo.Contains([]string{"done", "completed", "failed"}, s.Status)
}

// Failed reports whether the job ended in a terminal failure.
func (s *BatchStatus) Failed() bool {
	return s.Status == "failed"
}
