package billkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchStatus_InProgress(t *testing.T) {
	raw := []byte(`{
		"job_id": "job-1",
		"status": "processing",
		"entity_type": "invoice",
		"source": "csv",
		"total_count": null,
		"imported_count": null,
		"created_at": "2025-01-01T10:00:00Z",
		"updated_at": "2025-01-01T10:00:05Z",
		"records": null
	}`)

	var status BatchStatus
	require.NoError(t, json.Unmarshal(raw, &status))

	assert.Equal(t, "job-1", status.JobID)
	assert.False(t, status.Terminal())
	assert.Nil(t, status.TotalCount)
	assert.Nil(t, status.ImportedCount)
	assert.Nil(t, status.Records)
	assert.Nil(t, status.Error)
}

func TestBatchStatus_Completed(t *testing.T) {
	raw := []byte(`{
		"job_id": "job-1",
		"status": "done",
		"entity_type": "invoice",
		"source": "csv",
		"total_count": 2,
		"imported_count": 2,
		"created_at": "2025-01-01T10:00:00Z",
		"updated_at": "2025-01-01T10:03:00Z",
		"records": [
			{
				"invoiceNumber": "INV-1",
				"s3Key": "invoices/inv-1.pdf"
			},
			{
				"invoiceNumber": "INV-2",
				"s3Key": "invoices/inv-2.pdf",
				"warnings": [
					{
						"code": "unused_payload_field",
						"message": "field po_number is not used by the template",
						"payloadParams": ["po_number"]
					}
				]
			}
		]
	}`)

	var status BatchStatus
	require.NoError(t, json.Unmarshal(raw, &status))

	assert.True(t, status.Terminal())
	assert.False(t, status.Failed())
	require.NotNil(t, status.ImportedCount)
	assert.Len(t, status.Records, *status.ImportedCount)

	assert.Equal(t, "INV-1", status.Records[0].DocumentNumber())
	assert.Nil(t, status.Records[0].Warnings)

	require.Len(t, status.Records[1].Warnings, 1)
	warning := status.Records[1].Warnings[0]
	assert.Equal(t, "unused_payload_field", warning.Code)
	assert.NotEmpty(t, warning.Message)
	assert.Equal(t, []string{"po_number"}, warning.PayloadParams)
}

func TestBatchStatus_Failed(t *testing.T) {
	raw := []byte(`{
		"job_id": "job-9",
		"status": "failed",
		"entity_type": "quote",
		"source": "json",
		"total_count": 5,
		"imported_count": 0,
		"error": {"reason": "malformed row", "row": 3},
		"created_at": "2025-01-01T10:00:00Z",
		"updated_at": "2025-01-01T10:01:00Z",
		"records": null
	}`)

	var status BatchStatus
	require.NoError(t, json.Unmarshal(raw, &status))

	assert.True(t, status.Terminal())
	assert.True(t, status.Failed())
	assert.NotNil(t, status.Error)

	var detail map[string]any
	require.NoError(t, json.Unmarshal(status.Error, &detail))
	assert.Equal(t, "malformed row", detail["reason"])
}

func TestBatchRecord_QuoteNumber(t *testing.T) {
	record := BatchRecord{QuoteNumber: "Q-1", S3Key: "quotes/q-1.pdf"}
	assert.Equal(t, "Q-1", record.DocumentNumber())
}
