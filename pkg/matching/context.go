package matching

import (
	"github.com/shopspring/decimal"

	"github.com/Ramsey-B/sage/pkg/models"
)

// Sub-signal weights for the context score.
const (
	amountWeight   = 0.4
	contractWeight = 0.3
	monthWeight    = 0.3

	// amountRatioFloor is the agreement ratio below which the amount
	// sub-signal contributes nothing.
	amountRatioFloor = 0.8
)

// ContextScorer compares extracted structured signals against a candidate
// contract's stored attributes.
type ContextScorer struct {
	scorer *Scorer
}

// NewContextScorer creates a new ContextScorer
func NewContextScorer(scorer *Scorer) *ContextScorer {
	return &ContextScorer{scorer: scorer}
}

// Score returns a [0,1] context agreement value as the mean of the
// evaluated sub-signals: amount agreement, contract-reference agreement,
// and month consistency. Sub-signals whose inputs are missing do not count
// toward the denominator. The month sub-signal is asymmetric: it only
// registers when the invoice month is among the recognized ones.
func (cs *ContextScorer) Score(extracted models.ExtractedInvoiceData, contract *models.ContractRef, months []int) float64 {
	sum := 0.0
	evaluated := 0

	if extracted.TotalAmount != nil && contract != nil && contract.MonthlyAmount != nil {
		evaluated++
		if ratio := amountRatio(*extracted.TotalAmount, *contract.MonthlyAmount); ratio > amountRatioFloor {
			sum += ratio * amountWeight
		}
	}

	if extracted.ContractNumber != nil && contract != nil && contract.ContractNumber != "" {
		evaluated++
		sum += cs.scorer.JaroWinkler(*extracted.ContractNumber, contract.ContractNumber) * contractWeight
	}

	if len(months) > 0 && extracted.InvoiceDate != nil {
		invoiceMonth := int(extracted.InvoiceDate.Month())
		for _, m := range months {
			if m == invoiceMonth {
				evaluated++
				sum += monthWeight
				break
			}
		}
	}

	if evaluated == 0 {
		return 0.0
	}
	return sum / float64(evaluated)
}

// amountRatio is min/max of the two amounts, 0 when either is non-positive.
func amountRatio(a, b decimal.Decimal) float64 {
	if a.Sign() <= 0 || b.Sign() <= 0 {
		return 0.0
	}
	lo, hi := a, b
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}
	ratio, _ := lo.Div(hi).Float64()
	return ratio
}
