package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_MarksSentinel(t *testing.T) {
	err := NewError("discount value must be non-negative").
		WithHint("Use a value between 0 and 100").
		WithReportableDetails(map[string]any{"value": "-1"}).
		Mark(ErrValidation)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.False(t, IsHTTPClient(err))
	assert.Contains(t, err.Error(), "discount value")
}

func TestWithError_PreservesCause(t *testing.T) {
	cause := NewError("connection refused").Mark(ErrHTTPClient)
	wrapped := WithError(cause).
		WithHint("Unable to reach the BillKit API").
		Mark(ErrHTTPClient)

	assert.True(t, IsHTTPClient(wrapped))
}

func TestAPIError(t *testing.T) {
	apiErr := NewAPIError(http.StatusUnprocessableEntity, []byte(`{"detail":"bad date"}`))

	// An API error is catchable as the single http client kind
	assert.True(t, IsHTTPClient(apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "bad date", apiErr.JSONBody()["detail"])

	got, ok := AsAPIError(apiErr)
	require.True(t, ok)
	assert.Equal(t, apiErr.StatusCode, got.StatusCode)
}

func TestAPIError_RawBody(t *testing.T) {
	apiErr := NewAPIError(http.StatusBadGateway, []byte("plain text"))

	assert.Nil(t, apiErr.JSONBody())
	assert.Equal(t, "plain text", string(apiErr.ResponseBody))

	_, ok := AsAPIError(NewError("not api").Mark(ErrValidation))
	assert.False(t, ok)
}
