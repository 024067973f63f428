package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	base := NewBaseEvent(EventTypeScanMatched, "tenant-1")

	assert.Equal(t, EventTypeScanMatched, base.EventType)
	assert.Equal(t, SchemaVersion, base.SchemaVersion)
	assert.Equal(t, "tenant-1", base.TenantID)
	assert.NotEmpty(t, base.CorrelationID)
	assert.False(t, base.Timestamp.IsZero())
}

func TestScanEventSerialization(t *testing.T) {
	t.Run("Matched", func(t *testing.T) {
		agreement := "ag-1"
		event := ScanMatchedEvent{
			BaseEvent:    NewBaseEvent(EventTypeScanMatched, "tenant-1"),
			ScanID:       "scan-1",
			CustomerID:   "cust-1",
			AgreementID:  &agreement,
			Confidence:   84,
			MatchReasons: []string{"strong name match"},
		}

		data, err := json.Marshal(event)
		require.NoError(t, err)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal(data, &parsed))
		assert.Equal(t, "scan.matched", parsed["event_type"])
		assert.Equal(t, "ag-1", parsed["agreement_id"])
		assert.Equal(t, float64(84), parsed["confidence"])
	})

	t.Run("Reviewed", func(t *testing.T) {
		event := ScanReviewedEvent{
			BaseEvent:    NewBaseEvent(EventTypeScanReviewed, "tenant-1"),
			ScanID:       "scan-1",
			ReviewStatus: "dismissed",
		}

		data, err := json.Marshal(event)
		require.NoError(t, err)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal(data, &parsed))
		assert.Equal(t, "dismissed", parsed["review_status"])
		_, hasCustomer := parsed["customer_id"]
		assert.False(t, hasCustomer)
	})
}
