package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/sage/config"
	"github.com/Ramsey-B/sage/pkg/models"
)

type stubProvider struct {
	pool []models.CandidateRecord
	err  error
}

func (s *stubProvider) ActiveCandidates(ctx context.Context, tenantID string) ([]models.CandidateRecord, error) {
	return s.pool, s.err
}

func newTestEngine(pool []models.CandidateRecord, err error) *Engine {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewEngine(logger, &stubProvider{pool: pool, err: err}, DefaultConfig())
}

func namedCandidate(id, name string) models.CandidateRecord {
	return models.CandidateRecord{
		CustomerID:  id,
		CompanyName: strPtr(name),
	}
}

func scanRequest(name string, ocr int) models.ScanRequest {
	return models.ScanRequest{
		Extracted:     models.ExtractedInvoiceData{CustomerName: strPtr(name)},
		OCRConfidence: ocr,
	}
}

func TestEngine_Match_EmptyPool(t *testing.T) {
	engine := newTestEngine(nil, nil)

	result := engine.Match(context.Background(), "tenant-1", scanRequest("Ahmed Al-Salem", 80))

	require.NotNil(t, result)
	assert.Nil(t, result.BestMatch)
	assert.Empty(t, result.AllMatches)
	assert.Equal(t, 0, result.TotalConfidence)
	assert.Equal(t, 80, result.OCRConfidence)
}

func TestEngine_Match_ProviderFailureDegrades(t *testing.T) {
	engine := newTestEngine(nil, errors.New("connection refused"))

	result := engine.Match(context.Background(), "tenant-1", scanRequest("Ahmed Al-Salem", 60))

	require.NotNil(t, result)
	assert.Nil(t, result.BestMatch)
	assert.Empty(t, result.AllMatches)
	assert.Equal(t, 60, result.OCRConfidence)
}

func TestEngine_Match_ExactNameNoContracts(t *testing.T) {
	pool := []models.CandidateRecord{namedCandidate("c-1", "Ahmed Al-Salem")}
	engine := newTestEngine(pool, nil)

	result := engine.Match(context.Background(), "tenant-1", scanRequest("Ahmed Al-Salem", 80))

	require.NotNil(t, result.BestMatch)
	require.Len(t, result.AllMatches, 1)
	// round(80*0.30 + 100*0.50 + 0*0.20)
	assert.Equal(t, 74, result.BestMatch.Confidence)
	assert.Equal(t, 74, result.TotalConfidence)
	assert.Equal(t, "c-1", result.BestMatch.ID)
	assert.Equal(t, *result.BestMatch, result.AllMatches[0])
	assert.Equal(t, 100, result.NameSimilarity)
	assert.Nil(t, result.BestMatch.AgreementID)
	assert.Contains(t, result.BestMatch.MatchReasons, models.ReasonStrongName)
}

func TestEngine_Match_PlateMatch(t *testing.T) {
	candidate := namedCandidate("c-1", "Ahmed Al-Salem")
	candidate.Contracts = []models.ContractRef{{
		ContractID:     "ag-1",
		ContractNumber: "CT-1",
		CarNumber:      strPtr("123ABC"),
		Status:         "active",
	}}
	engine := newTestEngine([]models.CandidateRecord{candidate}, nil)

	req := scanRequest("Ahmed Al-Salem", 80)
	req.RawText = "plate 123-ABC due soon"

	result := engine.Match(context.Background(), "tenant-1", req)

	require.NotNil(t, result.BestMatch)
	// Punctuation-stripped forms are identical, so the plate signal applies
	// at full strength: round(80*0.30 + 100*0.40 + 100*0.20 + 0*0.10)
	assert.Equal(t, 84, result.BestMatch.Confidence)
	assert.Equal(t, 100, result.CarMatchScore)
	require.NotNil(t, result.BestMatch.AgreementID)
	assert.Equal(t, "ag-1", *result.BestMatch.AgreementID)
	assert.Equal(t, []string{models.ReasonStrongName, models.ReasonVehiclePlate}, result.BestMatch.MatchReasons)
}

func TestEngine_Match_NameFloor(t *testing.T) {
	pool := []models.CandidateRecord{
		namedCandidate("c-good", "Ahmed Al-Salem"),
		namedCandidate("c-noise", "Zxqw"),
	}
	engine := newTestEngine(pool, nil)

	result := engine.Match(context.Background(), "tenant-1", scanRequest("Ahmed Al-Salem", 80))

	require.Len(t, result.AllMatches, 1)
	assert.Equal(t, "c-good", result.AllMatches[0].ID)
}

func TestEngine_Match_SkipsEmptyNames(t *testing.T) {
	pool := []models.CandidateRecord{
		namedCandidate("c-1", "Ahmed Al-Salem"),
		{CustomerID: "c-unnamed"},
	}
	engine := newTestEngine(pool, nil)

	t.Run("CandidateWithoutName", func(t *testing.T) {
		result := engine.Match(context.Background(), "tenant-1", scanRequest("Ahmed Al-Salem", 80))
		require.Len(t, result.AllMatches, 1)
		assert.Equal(t, "c-1", result.AllMatches[0].ID)
	})

	t.Run("NoExtractedName", func(t *testing.T) {
		req := models.ScanRequest{OCRConfidence: 80, RawText: "some text"}
		result := engine.Match(context.Background(), "tenant-1", req)
		assert.Empty(t, result.AllMatches)
		assert.Nil(t, result.BestMatch)
	})
}

func TestEngine_Match_ArabicPersonName(t *testing.T) {
	// The stored Arabic name parts drive resolution, so an Arabic-script
	// invoice matches without relying on transliteration variants.
	pool := []models.CandidateRecord{{
		CustomerID:  "c-1",
		FirstName:   strPtr("Jassim"),
		FirstNameAr: strPtr("جاسم"),
		LastName:    strPtr("Al-Sabah"),
		LastNameAr:  strPtr("الصباح"),
	}}
	engine := newTestEngine(pool, nil)

	result := engine.Match(context.Background(), "tenant-1", scanRequest("جاسم الصباح", 80))

	require.NotNil(t, result.BestMatch)
	assert.Equal(t, "c-1", result.BestMatch.ID)
	assert.Equal(t, 74, result.BestMatch.Confidence)
	assert.Equal(t, 100, result.NameSimilarity)
}

func TestEngine_Match_DiagnosticsIncludeTruncatedEntries(t *testing.T) {
	amount := decimal.NewFromInt(500)
	withContract := namedCandidate("c-contract", "Ahmed Al-Salem")
	withContract.Contracts = []models.ContractRef{{
		ContractID:     "ag-1",
		ContractNumber: "CT-1",
		MonthlyAmount:  &amount,
		CarNumber:      strPtr("123ABC"),
	}}

	pool := []models.CandidateRecord{withContract}
	for i := 0; i < 11; i++ {
		pool = append(pool, namedCandidate(fmt.Sprintf("c-%d", i), "Ahmed Al-Salem"))
	}
	engine := newTestEngine(pool, nil)

	req := scanRequest("Ahmed Al-Salem", 80)
	req.RawText = "plate 123-ABC"
	req.Extracted.TotalAmount = &amount

	result := engine.Match(context.Background(), "tenant-1", req)

	// 12 entries survive the floor but only 10 are returned.
	require.Len(t, result.AllMatches, 10)
	require.NotNil(t, result.BestMatch)
	// round(80*0.30 + 100*0.40 + 100*0.20 + 0.4*100*0.10)
	assert.Equal(t, 88, result.BestMatch.Confidence)

	// Averages cover all 12 scored entries, truncated ones included:
	// name 12/12, car round(100/12), context round(0.4*100/12).
	assert.Equal(t, 100, result.NameSimilarity)
	assert.Equal(t, 8, result.CarMatchScore)
	assert.Equal(t, 3, result.ContextMatchScore)
}

func TestEngine_Match_RankingAndCap(t *testing.T) {
	t.Run("Descending", func(t *testing.T) {
		bare := namedCandidate("c-bare", "Ahmed Al-Salem")
		withPlate := namedCandidate("c-plate", "Ahmed Al-Salem")
		withPlate.Contracts = []models.ContractRef{{
			ContractID:     "ag-1",
			ContractNumber: "CT-1",
			CarNumber:      strPtr("123ABC"),
		}}

		engine := newTestEngine([]models.CandidateRecord{bare, withPlate}, nil)
		req := scanRequest("Ahmed Al-Salem", 80)
		req.RawText = "plate 123-ABC"

		result := engine.Match(context.Background(), "tenant-1", req)

		require.Len(t, result.AllMatches, 2)
		assert.Equal(t, "c-plate", result.AllMatches[0].ID)
		assert.Equal(t, "c-bare", result.AllMatches[1].ID)
		assert.GreaterOrEqual(t, result.AllMatches[0].Confidence, result.AllMatches[1].Confidence)
	})

	t.Run("TiesKeepInputOrderAndCapAtTen", func(t *testing.T) {
		var pool []models.CandidateRecord
		for i := 0; i < 12; i++ {
			pool = append(pool, namedCandidate(fmt.Sprintf("c-%d", i), "Ahmed Al-Salem"))
		}
		engine := newTestEngine(pool, nil)

		result := engine.Match(context.Background(), "tenant-1", scanRequest("Ahmed Al-Salem", 80))

		require.Len(t, result.AllMatches, 10)
		for i, m := range result.AllMatches {
			assert.Equal(t, fmt.Sprintf("c-%d", i), m.ID)
		}
	})
}

func TestEngine_Match_PerContractFanOut(t *testing.T) {
	candidate := namedCandidate("c-1", "Ahmed Al-Salem")
	candidate.Contracts = []models.ContractRef{
		{ContractID: "ag-1", ContractNumber: "CT-1"},
		{ContractID: "ag-2", ContractNumber: "CT-2"},
	}
	engine := newTestEngine([]models.CandidateRecord{candidate}, nil)

	result := engine.Match(context.Background(), "tenant-1", scanRequest("Ahmed Al-Salem", 80))

	require.Len(t, result.AllMatches, 2)
	numbers := []string{*result.AllMatches[0].ContractNumber, *result.AllMatches[1].ContractNumber}
	assert.ElementsMatch(t, []string{"CT-1", "CT-2"}, numbers)
}

func TestEngine_Match_ContractNumberReason(t *testing.T) {
	candidate := namedCandidate("c-1", "Ahmed Al-Salem")
	candidate.Contracts = []models.ContractRef{{
		ContractID:     "ag-1",
		ContractNumber: "CT-2024-001",
	}}
	engine := newTestEngine([]models.CandidateRecord{candidate}, nil)

	req := scanRequest("Ahmed Al-Salem", 80)
	req.Extracted.ContractNumber = strPtr("CT-2024-001")

	result := engine.Match(context.Background(), "tenant-1", req)

	require.NotNil(t, result.BestMatch)
	assert.Equal(t, []string{models.ReasonStrongName, models.ReasonContractNumber}, result.BestMatch.MatchReasons)
}

func TestConfigFromService(t *testing.T) {
	t.Run("ZeroValuesFallBackToDefaults", func(t *testing.T) {
		assert.Equal(t, DefaultConfig(), ConfigFromService(config.Config{}))
	})

	t.Run("SetValuesOverride", func(t *testing.T) {
		ec := ConfigFromService(config.Config{
			MatchMaxResults:        5,
			MatchMinNameSimilarity: 0.5,
			MatchCarScoreThreshold: 0.9,
		})
		assert.Equal(t, 5, ec.MaxResults)
		assert.Equal(t, 0.5, ec.MinNameSimilarity)
		assert.Equal(t, 0.9, ec.CarScoreThreshold)
	})
}

func TestFuseConfidence(t *testing.T) {
	t.Run("WithContract", func(t *testing.T) {
		// round(50*0.30 + 100*0.40 + 100*0.20 + 100*0.10)
		assert.Equal(t, 85, fuseConfidence(50, 1.0, 1.0, 1.0, true))
	})

	t.Run("Bare", func(t *testing.T) {
		assert.Equal(t, 74, fuseConfidence(80, 1.0, 0, 0, false))
	})

	t.Run("Bounds", func(t *testing.T) {
		assert.Equal(t, 0, fuseConfidence(0, 0, 0, 0, true))
		assert.Equal(t, 100, fuseConfidence(100, 1.0, 1.0, 1.0, true))
	})
}

func TestEngine_BestCarScore(t *testing.T) {
	engine := newTestEngine(nil, nil)

	t.Run("StrippedFormsIdentical", func(t *testing.T) {
		score := engine.bestCarScore([]string{"123-ABC"}, strPtr("123ABC"))
		assert.Equal(t, 1.0, score)
	})

	t.Run("BestPairingWins", func(t *testing.T) {
		score := engine.bestCarScore([]string{"999-XYZ", "123-ABC"}, strPtr("123ABC"))
		assert.Equal(t, 1.0, score)
	})

	t.Run("NoStoredPlate", func(t *testing.T) {
		assert.Equal(t, 0.0, engine.bestCarScore([]string{"123-ABC"}, nil))
	})

	t.Run("NoExtractedPlates", func(t *testing.T) {
		assert.Equal(t, 0.0, engine.bestCarScore(nil, strPtr("123ABC")))
	})
}
