package billkit

import (
	"github.com/billkit/billkit-go/internal/validator"
)

// SendEmailRequest dispatches one or more stored documents by email.
// FileIDs reference previously generated documents to attach; when
// FromEmail is nil the account's configured sender is used.
type SendEmailRequest struct {
	To        []string `json:"to" validate:"required,min=1,dive,email"`
	Subject   string   `json:"subject" validate:"required"`
	Body      string   `json:"body"`
	FromEmail *string  `json:"from_email,omitempty"`
	FileIDs   []string `json:"file_ids,omitempty"`
}

func (r *SendEmailRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// SendEmailResponse reports the outcome of an email dispatch.
type SendEmailResponse struct {
	Success    bool    `json:"success"`
	MessageID  *string `json:"message_id,omitempty"`
	StatusCode int     `json:"status_code"`
	Detail     *string `json:"detail,omitempty"`
}
