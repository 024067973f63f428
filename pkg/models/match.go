package models

// MatchSource identifies the kind of record a match candidate points at.
type MatchSource string

const (
	MatchSourceCustomer MatchSource = "customer"
)

// Match reason labels shown to the reviewer. These are display strings, not
// machine-parsed codes.
const (
	ReasonStrongName     = "strong name match"
	ReasonGoodName       = "good name match"
	ReasonVehiclePlate   = "vehicle plate match"
	ReasonContextAmount  = "context/amount match"
	ReasonContractNumber = "contract number match"
)

// MatchCandidate is one ranked match produced by a scoring run. It is built
// fresh per run and handed to the reviewer UI; the subsystem never persists
// it on its own.
type MatchCandidate struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Phone          *string     `json:"phone,omitempty"`
	CarNumber      *string     `json:"car_number,omitempty"`
	ContractNumber *string     `json:"contract_number,omitempty"`
	AgreementID    *string     `json:"agreement_id,omitempty"`
	CustomerType   *string     `json:"customer_type,omitempty"`
	Confidence     int         `json:"confidence"`
	MatchReasons   []string    `json:"match_reasons"`
	Source         MatchSource `json:"source"`
}

// FuzzyMatchResult is the output envelope of one matching run.
// AllMatches is sorted non-increasing by confidence and capped at 10;
// BestMatch is its first element or nil. Every confidence-bearing field
// sits in [0,100].
type FuzzyMatchResult struct {
	BestMatch         *MatchCandidate  `json:"best_match,omitempty"`
	AllMatches        []MatchCandidate `json:"all_matches"`
	TotalConfidence   int              `json:"total_confidence"`
	OCRConfidence     int              `json:"ocr_confidence"`
	NameSimilarity    int              `json:"name_similarity"`
	CarMatchScore     int              `json:"car_match_score"`
	ContextMatchScore int              `json:"context_match_score"`
}
