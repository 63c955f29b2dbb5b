package billkit

import (
	"context"
	"net/http"

	ierr "github.com/billkit/billkit-go/errors"
	"github.com/billkit/billkit-go/internal/httpclient"
	"github.com/billkit/billkit-go/internal/validator"
)

// UserDetails is the account behind the API key.
type UserDetails struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	DefaultCurrency string  `json:"default_currency"`
	BusinessName    *string `json:"business_name,omitempty"`
	BusinessEmail   *string `json:"business_email,omitempty"`
	BusinessAddress *string `json:"business_address,omitempty"`
	LogoURL         *string `json:"logo_url,omitempty"`
}

// PartialUserDetails is a partial update of the account settings.
// Only fields that are set are sent, so the server can distinguish
// "leave unchanged" from "reset".
type PartialUserDetails struct {
	BusinessName    *string `json:"business_name,omitempty"`
	BusinessEmail   *string `json:"business_email,omitempty" validate:"omitempty,email"`
	BusinessAddress *string `json:"business_address,omitempty"`
	LogoURL         *string `json:"logo_url,omitempty"`
	DefaultCurrency *string `json:"default_currency,omitempty"`
}

// LogoUploadResponse describes an uploaded account logo.
type LogoUploadResponse struct {
	LogoURL  string `json:"logo_url"`
	PublicID string `json:"public_id"`
}

// UsersService manages the account behind the API key.
type UsersService struct {
	client *Client
}

// Me returns the current user.
func (s *UsersService) Me(ctx context.Context) (*UserDetails, error) {
	var response UserDetails
	err := s.client.makeRequest(ctx, http.MethodGet, "users/me", nil, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Update applies a partial update to the account settings.
func (s *UsersService) Update(ctx context.Context, details *PartialUserDetails) (*UserDetails, error) {
	if details == nil {
		return nil, ierr.NewError("user details are required").
			Mark(ierr.ErrValidation)
	}
	if err := validator.ValidateRequest(details); err != nil {
		return nil, err
	}

	var response UserDetails
	err := s.client.makeRequest(ctx, http.MethodPatch, "users/me", nil, details, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// UploadLogo uploads a logo image for the account from a local file.
func (s *UsersService) UploadLogo(ctx context.Context, path string) (*LogoUploadResponse, error) {
	if path == "" {
		return nil, ierr.NewError("logo path is required").
			Mark(ierr.ErrValidation)
	}

	s.client.logger.Infow("uploading account logo", "path", path)

	files := []httpclient.File{
		{FieldName: "file", Path: path},
	}

	var response LogoUploadResponse
	err := s.client.makeMultipartRequest(ctx, "users/logo", files, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}
