package billkit

import (
	"context"
	"fmt"
	"net/http"

	ierr "github.com/billkit/billkit-go/errors"
	"github.com/billkit/billkit-go/internal/httpclient"
)

// fileIDHeader carries the storage id of a freshly generated document
// alongside its PDF body.
const fileIDHeader = "X-File-Id"

// DocumentResponse is the result of a generate call: the rendered PDF
// and, when the document was persisted to cloud storage, the file id
// to retrieve, update, delete or email it later. The response is
// never mutated after creation; persisting the PDF locally is the
// caller's responsibility.
type DocumentResponse struct {
	PDF    []byte
	FileID string
}

// DeleteResponse confirms removal of a stored document.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// documentsService implements the operations invoices and quotes
// share; the two concrete services embed it.
type documentsService struct {
	client *Client

	// entity is the URL segment, "invoices" or "quotes"
	entity string

	// csvField is the multipart field name of the header CSV in batch
	// submissions
	csvField string
}

// DownloadPDF fetches the rendered PDF of a stored document.
func (s *documentsService) DownloadPDF(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, errMissingFileID()
	}

	resp, err := s.client.makeRawRequest(ctx, http.MethodGet, s.entity+"/download", map[string]string{"file_id": fileID}, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Delete removes a stored document.
func (s *documentsService) Delete(ctx context.Context, fileID string) (*DeleteResponse, error) {
	if fileID == "" {
		return nil, errMissingFileID()
	}

	s.client.logger.Infow("deleting document", "entity", s.entity, "file_id", fileID)

	var response DeleteResponse
	err := s.client.makeRequest(ctx, http.MethodDelete, s.entity, map[string]string{"file_id": fileID}, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// SendEmail dispatches stored documents by email.
func (s *documentsService) SendEmail(ctx context.Context, req *SendEmailRequest) (*SendEmailResponse, error) {
	if req == nil {
		return nil, ierr.NewError("email request is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.client.logger.Infow("sending document email",
		"entity", s.entity,
		"recipients", len(req.To),
		"attachments", len(req.FileIDs))

	var response SendEmailResponse
	if err := s.client.makeRequest(ctx, http.MethodPost, "email/send", nil, req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// CreateBatchFromCSV submits a batch job from two local CSV files:
// one with the document headers and one with their line items. Both
// files are opened while the request body is built and closed before
// the single round trip is issued.
func (s *documentsService) CreateBatchFromCSV(ctx context.Context, dataPath, itemsPath string) (*BatchJob, error) {
	if dataPath == "" || itemsPath == "" {
		return nil, ierr.NewError("both CSV paths are required").
			WithHint("Provide the header CSV and the items CSV").
			Mark(ierr.ErrValidation)
	}

	s.client.logger.Infow("submitting CSV batch",
		"entity", s.entity,
		"data_path", dataPath,
		"items_path", itemsPath)

	files := []httpclient.File{
		{FieldName: s.csvField, Path: dataPath},
		{FieldName: "items_csv", Path: itemsPath},
	}

	var response BatchJob
	err := s.client.makeMultipartRequest(ctx, "batch/"+s.entity+"/csv", files, nil, &response)
	if err != nil {
		return nil, err
	}

	s.client.logger.Infow("batch submitted", "entity", s.entity, "job_id", response.JobID, "status", response.Status)
	return &response, nil
}

// GetBatchStatus polls the state of a batch job. Re-invoking it until
// BatchStatus.Terminal() reports true is the caller's responsibility.
func (s *documentsService) GetBatchStatus(ctx context.Context, jobID string) (*BatchStatus, error) {
	if jobID == "" {
		return nil, ierr.NewError("job id is required").
			Mark(ierr.ErrValidation)
	}

	var response BatchStatus
	err := s.client.makeRequest(ctx, http.MethodGet, fmt.Sprintf("batch/jobs/%s", jobID), nil, nil, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// createDocument issues a generate call and assembles the PDF
// response. The file id travels in a response header and is empty
// when the document was not uploaded to cloud storage.
func (s *documentsService) createDocument(ctx context.Context, payload interface{}) (*DocumentResponse, error) {
	resp, err := s.client.makeRawRequest(ctx, http.MethodPost, s.entity+"/generate", nil, payload)
	if err != nil {
		return nil, err
	}

	doc := &DocumentResponse{
		PDF:    resp.Body,
		FileID: resp.Headers[fileIDHeader],
	}

	s.client.logger.Infow("document generated",
		"entity", s.entity,
		"pdf_bytes", len(doc.PDF),
		"file_id", doc.FileID)
	return doc, nil
}

func (s *documentsService) listQuery(limit, offset int) map[string]string {
	query := map[string]string{}
	if limit > 0 {
		query["limit"] = fmt.Sprintf("%d", limit)
	}
	if offset > 0 {
		query["offset"] = fmt.Sprintf("%d", offset)
	}
	return query
}

func errMissingFileID() error {
	return ierr.NewError("file id is required").
		WithHint("Pass the file id returned by a create call").
		Mark(ierr.ErrValidation)
}

func errEmptyBatch() error {
	return ierr.NewError("batch requires at least one payload").
		Mark(ierr.ErrValidation)
}
