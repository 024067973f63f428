// Package matching implements fuzzy invoice-to-customer matching
package matching

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/tracing"

	"github.com/Ramsey-B/sage/config"
	"github.com/Ramsey-B/sage/pkg/models"
	"github.com/Ramsey-B/sage/pkg/normalizers"
	"github.com/Ramsey-B/sage/pkg/textscan"
)

// CandidateProvider supplies the full active candidate pool for an
// ownership scope. Implementations must return an empty slice, not an
// error, when the scope has no candidates.
type CandidateProvider interface {
	ActiveCandidates(ctx context.Context, tenantID string) ([]models.CandidateRecord, error)
}

// EngineConfig contains configuration for the match engine
type EngineConfig struct {
	MaxResults        int     // Ranked matches to keep (default: 10)
	MinNameSimilarity float64 // Hard floor below which a candidate is discarded (default: 0.3)
	CarScoreThreshold float64 // Plate similarity below this counts as 0 (default: 0.8)
}

// DefaultConfig returns default engine configuration
func DefaultConfig() EngineConfig {
	return EngineConfig{
		MaxResults:        10,
		MinNameSimilarity: 0.3,
		CarScoreThreshold: 0.8,
	}
}

// ConfigFromService maps the service configuration onto an EngineConfig,
// falling back to the defaults for unset values.
func ConfigFromService(cfg config.Config) EngineConfig {
	ec := DefaultConfig()
	if cfg.MatchMaxResults > 0 {
		ec.MaxResults = cfg.MatchMaxResults
	}
	if cfg.MatchMinNameSimilarity > 0 {
		ec.MinNameSimilarity = cfg.MatchMinNameSimilarity
	}
	if cfg.MatchCarScoreThreshold > 0 {
		ec.CarScoreThreshold = cfg.MatchCarScoreThreshold
	}
	return ec
}

// Fusion weights. A contract-backed entry spreads weight across all four
// signals; a bare entry redistributes the vehicle weight onto the name and
// context signals.
const (
	ocrWeight = 0.30

	nameWeightWithContract    = 0.40
	carWeightWithContract     = 0.20
	contextWeightWithContract = 0.10

	nameWeightBare    = 0.50
	contextWeightBare = 0.20
)

// Engine scores an incoming scan against the candidate pool and produces a
// ranked FuzzyMatchResult. The pipeline is pure and synchronous; the only
// I/O is the single bulk pool fetch.
type Engine struct {
	logger        ectologger.Logger
	provider      CandidateProvider
	scorer        *Scorer
	contextScorer *ContextScorer
	extractor     *textscan.Extractor
	config        EngineConfig
}

// NewEngine creates a new match engine
func NewEngine(logger ectologger.Logger, provider CandidateProvider, config EngineConfig) *Engine {
	scorer := NewScorer()
	return &Engine{
		logger:        logger,
		provider:      provider,
		scorer:        scorer,
		contextScorer: NewContextScorer(scorer),
		extractor:     textscan.New(),
		config:        config,
	}
}

// scoredEntry is one candidate/contract pairing with its per-signal scores,
// kept until the final sort so the diagnostics can average over everything
// that survived the name floor.
type scoredEntry struct {
	candidate    models.MatchCandidate
	nameSim      float64
	carScoreRaw  float64
	contextScore float64
}

// Match runs one scoring pass for a scan within the given tenant scope.
// It never fails: a pool fetch error degrades to the empty result with the
// OCR confidence passed through.
func (e *Engine) Match(ctx context.Context, tenantID string, req models.ScanRequest) *models.FuzzyMatchResult {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.Match")
	defer span.End()

	req.Normalize()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id": tenantID,
	})

	pool, err := e.provider.ActiveCandidates(ctx, tenantID)
	if err != nil {
		log.WithError(err).Warn("Candidate pool fetch failed, returning empty match result")
		return emptyResult(req.OCRConfidence)
	}
	if len(pool) == 0 {
		log.Debug("Candidate pool is empty")
		return emptyResult(req.OCRConfidence)
	}

	extractedName := ""
	if req.Extracted.CustomerName != nil {
		extractedName = strings.TrimSpace(*req.Extracted.CustomerName)
	}

	plates := e.extractor.CarNumbers(req.RawText)
	months := e.extractor.Months(req.RawText)

	var entries []scoredEntry
	for i := range pool {
		entries = append(entries, e.scoreCandidate(&pool[i], extractedName, req, plates, months)...)
	}

	result := e.assemble(entries, req.OCRConfidence)

	log.WithFields(map[string]any{
		"pool_size":   len(pool),
		"match_count": len(result.AllMatches),
		"confidence":  result.TotalConfidence,
	}).Debug("Scored scan against candidate pool")

	return result
}

// scoreCandidate emits one scored entry per contract, or one bare entry
// when the candidate has none. Candidates below the name floor, or with an
// empty name on either side, emit nothing.
func (e *Engine) scoreCandidate(c *models.CandidateRecord, extractedName string, req models.ScanRequest, plates []string, months []int) []scoredEntry {
	name := c.ResolveName()
	if name == "" || extractedName == "" {
		return nil
	}

	nameSim := e.scorer.NameSimilarity(extractedName, name)
	if nameSim < e.config.MinNameSimilarity {
		return nil
	}

	if len(c.Contracts) == 0 {
		contextScore := e.contextScorer.Score(req.Extracted, nil, months)
		return []scoredEntry{{
			candidate:    e.buildCandidate(c, name, nil, req.OCRConfidence, nameSim, 0, contextScore, 0),
			nameSim:      nameSim,
			carScoreRaw:  0,
			contextScore: contextScore,
		}}
	}

	entries := make([]scoredEntry, 0, len(c.Contracts))
	for i := range c.Contracts {
		contract := &c.Contracts[i]

		carScoreRaw := e.bestCarScore(plates, contract.CarNumber)
		contextScore := e.contextScorer.Score(req.Extracted, contract, months)

		contractSim := 0.0
		if req.Extracted.ContractNumber != nil && contract.ContractNumber != "" {
			contractSim = e.scorer.JaroWinkler(*req.Extracted.ContractNumber, contract.ContractNumber)
		}

		entries = append(entries, scoredEntry{
			candidate:    e.buildCandidate(c, name, contract, req.OCRConfidence, nameSim, carScoreRaw, contextScore, contractSim),
			nameSim:      nameSim,
			carScoreRaw:  carScoreRaw,
			contextScore: contextScore,
		})
	}
	return entries
}

// bestCarScore takes the best prefix-weighted pairing between the plate
// tokens found in the text and the contract's stored plate, both compared
// punctuation-stripped and uppercased.
func (e *Engine) bestCarScore(plates []string, carNumber *string) float64 {
	if carNumber == nil || len(plates) == 0 {
		return 0.0
	}
	stored := canonicalPlate(*carNumber)
	if stored == "" {
		return 0.0
	}

	best := 0.0
	for _, plate := range plates {
		if sim := e.scorer.JaroWinkler(canonicalPlate(plate), stored); sim > best {
			best = sim
		}
	}
	return best
}

func canonicalPlate(s string) string {
	return strings.ToUpper(normalizers.ApplyChain(s, "remove_punctuation", "remove_whitespace"))
}

// buildCandidate fuses the per-signal scores into a 0-100 confidence and
// attaches the reviewer-facing match reasons in priority order. The raw car
// similarity only contributes to the fusion once it clears the acceptance
// threshold.
func (e *Engine) buildCandidate(c *models.CandidateRecord, name string, contract *models.ContractRef, ocrConfidence int, nameSim, carScoreRaw, contextScore, contractSim float64) models.MatchCandidate {
	carScore := 0.0
	if carScoreRaw > e.config.CarScoreThreshold {
		carScore = carScoreRaw
	}

	candidate := models.MatchCandidate{
		ID:           c.CustomerID,
		Name:         name,
		Phone:        c.Phone,
		Confidence:   fuseConfidence(ocrConfidence, nameSim, carScore, contextScore, contract != nil),
		MatchReasons: []string{},
		Source:       models.MatchSourceCustomer,
	}
	if c.CustomerType != "" {
		customerType := c.CustomerType
		candidate.CustomerType = &customerType
	}
	if contract != nil {
		contractNumber := contract.ContractNumber
		agreementID := contract.ContractID
		candidate.ContractNumber = &contractNumber
		candidate.AgreementID = &agreementID
		candidate.CarNumber = contract.CarNumber
	}

	switch {
	case nameSim > 0.7:
		candidate.MatchReasons = append(candidate.MatchReasons, models.ReasonStrongName)
	case nameSim > 0.5:
		candidate.MatchReasons = append(candidate.MatchReasons, models.ReasonGoodName)
	}
	if carScoreRaw > 0.8 {
		candidate.MatchReasons = append(candidate.MatchReasons, models.ReasonVehiclePlate)
	}
	if contextScore > 0.7 {
		candidate.MatchReasons = append(candidate.MatchReasons, models.ReasonContextAmount)
	}
	if contractSim > 0.8 {
		candidate.MatchReasons = append(candidate.MatchReasons, models.ReasonContractNumber)
	}

	return candidate
}

// fuseConfidence blends the OCR confidence with the per-signal scores into
// a clamped integer confidence.
func fuseConfidence(ocrConfidence int, nameSim, carScore, contextScore float64, hasContract bool) int {
	ocr := float64(ocrConfidence)

	var fused float64
	if hasContract {
		fused = ocr*ocrWeight +
			nameSim*100*nameWeightWithContract +
			carScore*100*carWeightWithContract +
			contextScore*100*contextWeightWithContract
	} else {
		fused = ocr*ocrWeight +
			nameSim*100*nameWeightBare +
			contextScore*100*contextWeightBare
	}

	return clampScore(int(math.Round(fused)))
}

// assemble ranks the scored entries and computes the aggregate diagnostics.
// Diagnostics average over every entry that survived the name floor, not
// just the entries that fit under MaxResults.
func (e *Engine) assemble(entries []scoredEntry, ocrConfidence int) *models.FuzzyMatchResult {
	if len(entries) == 0 {
		return emptyResult(ocrConfidence)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].candidate.Confidence > entries[j].candidate.Confidence
	})

	nameSum, carSum, contextSum := 0.0, 0.0, 0.0
	for _, entry := range entries {
		nameSum += entry.nameSim
		carSum += entry.carScoreRaw
		contextSum += entry.contextScore
	}
	n := float64(len(entries))

	kept := entries
	if len(kept) > e.config.MaxResults {
		kept = kept[:e.config.MaxResults]
	}

	matches := make([]models.MatchCandidate, 0, len(kept))
	for _, entry := range kept {
		matches = append(matches, entry.candidate)
	}

	best := matches[0]
	return &models.FuzzyMatchResult{
		BestMatch:         &best,
		AllMatches:        matches,
		TotalConfidence:   best.Confidence,
		OCRConfidence:     ocrConfidence,
		NameSimilarity:    clampScore(int(math.Round(nameSum / n * 100))),
		CarMatchScore:     clampScore(int(math.Round(carSum / n * 100))),
		ContextMatchScore: clampScore(int(math.Round(contextSum / n * 100))),
	}
}

func emptyResult(ocrConfidence int) *models.FuzzyMatchResult {
	return &models.FuzzyMatchResult{
		AllMatches:    []models.MatchCandidate{},
		OCRConfidence: ocrConfidence,
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
