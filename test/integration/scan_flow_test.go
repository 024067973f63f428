package integration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sage/pkg/matching"
	"github.com/Ramsey-B/sage/pkg/models"
)

type memoryProvider struct {
	pool []models.CandidateRecord
}

func (m *memoryProvider) ActiveCandidates(ctx context.Context, tenantID string) ([]models.CandidateRecord, error) {
	return m.pool, nil
}

func newEngine(pool []models.CandidateRecord) *matching.Engine {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return matching.NewEngine(logger, &memoryProvider{pool: pool}, matching.DefaultConfig())
}

func strPtr(s string) *string {
	return &s
}

func TestScanFlow_FullPipeline(t *testing.T) {
	gulf := models.CandidateRecord{
		CustomerID:  "cust-gulf",
		CompanyName: strPtr("Gulf Transport Co"),
		Contracts: []models.ContractRef{{
			ContractID:     "ag-gulf-1",
			ContractNumber: "CT-2024-117",
			CarNumber:      strPtr("123ABC"),
			Status:         "active",
		}},
	}
	salem := models.CandidateRecord{
		CustomerID: "cust-salem",
		FirstName:  strPtr("Ahmed"),
		LastName:   strPtr("Al-Salem"),
	}
	engine := newEngine([]models.CandidateRecord{gulf, salem})

	t.Run("MatchesCompanyWithPlateEvidence", func(t *testing.T) {
		req := models.ScanRequest{
			Extracted: models.ExtractedInvoiceData{
				CustomerName: strPtr("Gulf Transport Co"),
			},
			RawText:       "Gulf Transport Co plate 123-ABC monthly rental",
			OCRConfidence: 80,
		}

		result := engine.Match(context.Background(), "tenant-1", req)

		require.NotNil(t, result.BestMatch)
		assert.Equal(t, "cust-gulf", result.BestMatch.ID)
		require.NotNil(t, result.BestMatch.AgreementID)
		assert.Equal(t, "ag-gulf-1", *result.BestMatch.AgreementID)
		assert.Contains(t, result.BestMatch.MatchReasons, models.ReasonVehiclePlate)
		assert.Equal(t, result.BestMatch.Confidence, result.TotalConfidence)
	})

	t.Run("MatchesPersonByName", func(t *testing.T) {
		req := models.ScanRequest{
			Extracted: models.ExtractedInvoiceData{
				CustomerName: strPtr("Ahmed Al-Salem"),
			},
			OCRConfidence: 80,
		}

		result := engine.Match(context.Background(), "tenant-1", req)

		require.NotNil(t, result.BestMatch)
		assert.Equal(t, "cust-salem", result.BestMatch.ID)
		assert.Equal(t, 74, result.BestMatch.Confidence)
	})

	t.Run("ResultOrderingInvariants", func(t *testing.T) {
		req := models.ScanRequest{
			Extracted: models.ExtractedInvoiceData{
				CustomerName: strPtr("Ahmed Al-Salem"),
			},
			OCRConfidence: 80,
		}

		result := engine.Match(context.Background(), "tenant-1", req)

		require.NotEmpty(t, result.AllMatches)
		assert.LessOrEqual(t, len(result.AllMatches), 10)
		for i := 1; i < len(result.AllMatches); i++ {
			assert.GreaterOrEqual(t, result.AllMatches[i-1].Confidence, result.AllMatches[i].Confidence)
		}
		assert.Equal(t, result.AllMatches[0], *result.BestMatch)
	})

	t.Run("EmptyPoolReturnsEmptyResult", func(t *testing.T) {
		empty := newEngine(nil)
		req := models.ScanRequest{
			Extracted: models.ExtractedInvoiceData{
				CustomerName: strPtr("Ahmed Al-Salem"),
			},
			OCRConfidence: 80,
		}

		result := empty.Match(context.Background(), "tenant-1", req)

		assert.Nil(t, result.BestMatch)
		assert.Empty(t, result.AllMatches)
		assert.Equal(t, 0, result.TotalConfidence)
		assert.Equal(t, 80, result.OCRConfidence)
	})
}

func TestScanFlow_CrossScriptMatching(t *testing.T) {
	pool := []models.CandidateRecord{{
		CustomerID:    "cust-ar",
		CompanyNameAr: strPtr("محمد علي"),
	}}
	engine := newEngine(pool)

	req := models.ScanRequest{
		Extracted: models.ExtractedInvoiceData{
			CustomerName: strPtr("Mohammed Ali"),
		},
		OCRConfidence: 70,
	}

	result := engine.Match(context.Background(), "tenant-1", req)

	require.NotNil(t, result.BestMatch)
	assert.Equal(t, "cust-ar", result.BestMatch.ID)
}

func TestScanFlow_ResultSerialization(t *testing.T) {
	pool := []models.CandidateRecord{{
		CustomerID:  "cust-1",
		CompanyName: strPtr("Gulf Transport Co"),
		Phone:       strPtr("+965 1234 5678"),
	}}
	engine := newEngine(pool)

	req := models.ScanRequest{
		Extracted: models.ExtractedInvoiceData{
			CustomerName: strPtr("Gulf Transport Co"),
		},
		OCRConfidence: 80,
	}

	result := engine.Match(context.Background(), "tenant-1", req)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var parsed models.FuzzyMatchResult
	require.NoError(t, json.Unmarshal(data, &parsed))

	require.NotNil(t, parsed.BestMatch)
	assert.Equal(t, result.BestMatch.ID, parsed.BestMatch.ID)
	assert.Equal(t, result.TotalConfidence, parsed.TotalConfidence)
	assert.Len(t, parsed.AllMatches, len(result.AllMatches))
	assert.NotNil(t, parsed.AllMatches[0].MatchReasons)
}
