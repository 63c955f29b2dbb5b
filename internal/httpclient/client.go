package httpclient

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	ierr "github.com/billkit/billkit-go/errors"
)

// File describes one file part of a multipart request. The file is
// opened when the request body is built and closed before the request
// is sent.
type File struct {
	FieldName string
	Path      string
}

// Request represents an HTTP request
type Request struct {
	Method  string
	URL     string
	Query   map[string]string
	Headers map[string]string
	Body    []byte

	// Files switches the request to multipart/form-data encoding.
	// Body must be nil when Files is set.
	Files      []File
	FormFields map[string]string
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// Client interface for making HTTP requests
type Client interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// DefaultClient implements the Client interface
type DefaultClient struct {
	client *http.Client
}

// NewDefaultClient creates a new DefaultClient with the given timeout.
// There is a single fixed timeout per client and no retry behaviour.
func NewDefaultClient(timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DefaultClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send makes an HTTP request and returns the response
func (c *DefaultClient) Send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	contentType := ""

	if len(req.Files) > 0 {
		multipartBody, multipartType, err := buildMultipartBody(req)
		if err != nil {
			return nil, err
		}
		body = multipartBody
		contentType = multipartType
	} else if req.Body != nil {
		body = bytes.NewReader(req.Body)
		contentType = "application/json"
	}

	fullURL := req.URL
	if len(req.Query) > 0 {
		values := url.Values{}
		for k, v := range req.Query {
			values.Add(k, v)
		}
		fullURL += "?" + values.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Please check the request payload").
			Mark(ierr.ErrHTTPClient)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	// Make request
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unable to reach the BillKit API").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	// Read response body
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read the response body").
			Mark(ierr.ErrHTTPClient)
	}

	// Copy response headers
	headers := make(map[string]string)
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	// Return API error for non-2xx responses
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ierr.NewAPIError(resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Headers:    headers,
	}, nil
}

// buildMultipartBody assembles a multipart/form-data body from the
// request's form fields and files. File handles are opened and closed
// within this call.
func buildMultipartBody(req *Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for k, v := range req.FormFields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", ierr.WithError(err).
				WithHint("Failed to build multipart form field").
				Mark(ierr.ErrHTTPClient)
		}
	}

	for _, file := range req.Files {
		if err := writeFilePart(writer, file); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", ierr.WithError(err).
			WithHint("Failed to finalize multipart body").
			Mark(ierr.ErrHTTPClient)
	}

	return &buf, writer.FormDataContentType(), nil
}

func writeFilePart(writer *multipart.Writer, file File) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Unable to open file %s", file.Path).
			Mark(ierr.ErrValidation)
	}
	defer f.Close()

	part, err := writer.CreateFormFile(file.FieldName, filepath.Base(file.Path))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create multipart file part").
			Mark(ierr.ErrHTTPClient)
	}
	if _, err := io.Copy(part, f); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to read file %s", file.Path).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}
