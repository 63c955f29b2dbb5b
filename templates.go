package billkit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ierr "github.com/billkit/billkit-go/errors"
	"github.com/billkit/billkit-go/internal/validator"
)

// MaxTemplateHTMLLength is the upper bound on custom template HTML.
const MaxTemplateHTMLLength = 500_000

// requiredTemplateVariables must all appear in a strict-validated
// template so it can render both invoice and quote payloads.
var requiredTemplateVariables = []string{
	"client_name",
	"client_email",
	"items",
	"invoice_number",
	"due_date",
	"quote_number",
}

// ValidateTemplateHTML performs structural checks on custom template
// HTML: size cap, doctype, html open/close tags, and balanced {{ }}
// and {% %} markers. It is pure and does no I/O. The checks fail fast
// on obvious authoring mistakes before the template reaches the
// server.
func ValidateTemplateHTML(html string) error {
	if len(html) > MaxTemplateHTMLLength {
		return ierr.NewError("HTML too large").
			WithHintf("Template HTML must be at most %d characters", MaxTemplateHTMLLength).
			WithReportableDetails(map[string]any{
				"length": len(html),
			}).
			Mark(ierr.ErrValidation)
	}

	// Prefix checks run on a trimmed, lower-cased copy; the stored
	// value keeps its original case.
	normalized := strings.ToLower(strings.TrimLeft(html, " \t\r\n"))

	if !strings.HasPrefix(normalized, "<!doctype html") {
		return ierr.NewError("template HTML must start with <!DOCTYPE html>").
			Mark(ierr.ErrValidation)
	}

	if !strings.Contains(normalized, "<html") || !strings.Contains(normalized, "</html>") {
		return ierr.NewError("template HTML must contain <html> and </html> tags").
			Mark(ierr.ErrValidation)
	}

	if strings.Count(html, "{{") != strings.Count(html, "}}") {
		return ierr.NewError("unbalanced {{ }} expression markers").
			WithReportableDetails(map[string]any{
				"open":  strings.Count(html, "{{"),
				"close": strings.Count(html, "}}"),
			}).
			Mark(ierr.ErrValidation)
	}

	if strings.Count(html, "{%") != strings.Count(html, "%}") {
		return ierr.NewError("unbalanced {% %} block markers").
			WithReportableDetails(map[string]any{
				"open":  strings.Count(html, "{%"),
				"close": strings.Count(html, "%}"),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ValidateTemplateHTMLStrict runs ValidateTemplateHTML and then
// requires every template variable a document render needs to be
// referenced somewhere in the HTML.
func ValidateTemplateHTMLStrict(html string) error {
	if err := ValidateTemplateHTML(html); err != nil {
		return err
	}

	for _, variable := range requiredTemplateVariables {
		if !strings.Contains(html, variable) {
			return ierr.NewError("template is missing a required variable").
				WithHintf("Template HTML must reference %q", variable).
				WithReportableDetails(map[string]any{
					"missing":  variable,
					"required": requiredTemplateVariables,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// TemplateRef names one available template.
type TemplateRef struct {
	Name string `json:"name"`
}

// TemplatesListResponse lists the built-in and custom template names
// usable in create and batch payloads via the style field.
type TemplatesListResponse struct {
	Default []TemplateRef `json:"default"`
	Custom  []TemplateRef `json:"custom"`
}

// CreateTemplateRequest registers a custom HTML template.
type CreateTemplateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	HTML string `json:"html" validate:"required"`
}

func (r *CreateTemplateRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return ValidateTemplateHTMLStrict(r.HTML)
}

// UpdateTemplateRequest changes the name and/or HTML of a custom
// template. At least one field must be set.
type UpdateTemplateRequest struct {
	Name *string `json:"name,omitempty" validate:"omitnil,min=1,max=200"`
	HTML *string `json:"html,omitempty"`
}

func (r *UpdateTemplateRequest) Validate() error {
	if r.Name == nil && r.HTML == nil {
		return ierr.NewError("template update requires at least one of name or html").
			Mark(ierr.ErrValidation)
	}
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.HTML != nil {
		return ValidateTemplateHTML(*r.HTML)
	}
	return nil
}

// TemplateResponse confirms a template create or update.
type TemplateResponse struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
}

// TemplatesService manages custom document templates.
type TemplatesService struct {
	client *Client
}

// List returns all template names, built-in and custom.
func (s *TemplatesService) List(ctx context.Context) (*TemplatesListResponse, error) {
	var response TemplatesListResponse
	err := s.client.makeRequest(ctx, http.MethodGet, "templates/all", nil, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Create registers a custom HTML template under the given name. The
// HTML is validated strictly before the request is issued so the
// template is guaranteed to render both invoices and quotes.
func (s *TemplatesService) Create(ctx context.Context, name, html string) (*TemplateResponse, error) {
	req := CreateTemplateRequest{Name: name, HTML: html}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.client.logger.Infow("creating custom template", "name", name, "html_bytes", len(html))

	var response TemplateResponse
	err := s.client.makeRequest(ctx, http.MethodPost, "templates", nil, req, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Update changes a custom template. New HTML passes the structural
// checks, but variable completeness is not re-enforced on update.
func (s *TemplatesService) Update(ctx context.Context, name string, req *UpdateTemplateRequest) (*TemplateResponse, error) {
	if name == "" {
		return nil, errMissingTemplateName()
	}
	if req == nil {
		return nil, ierr.NewError("template update request is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var response TemplateResponse
	err := s.client.makeRequest(ctx, http.MethodPatch, fmt.Sprintf("templates/%s", url.PathEscape(name)), nil, req, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Delete removes a custom template.
func (s *TemplatesService) Delete(ctx context.Context, name string) (*TemplateResponse, error) {
	if name == "" {
		return nil, errMissingTemplateName()
	}

	var response TemplateResponse
	err := s.client.makeRequest(ctx, http.MethodDelete, fmt.Sprintf("templates/%s", url.PathEscape(name)), nil, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func errMissingTemplateName() error {
	return ierr.NewError("template name is required").
		Mark(ierr.ErrValidation)
}
