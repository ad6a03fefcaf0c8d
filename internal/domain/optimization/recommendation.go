// Package optimization generates duty-saving recommendations by comparing a
// product's current classification and origin against candidate alternatives.
package optimization

import (
	"github.com/shopspring/decimal"

	"github.com/hapkiduki/landedcost/internal/domain/entity"
)

// RiskLevel grades how likely a recommendation is to hold up with customs.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Feasibility grades the operational effort of acting on a recommendation.
type Feasibility string

const (
	FeasibilityEasy      Feasibility = "easy"
	FeasibilityModerate  Feasibility = "moderate"
	FeasibilityDifficult Feasibility = "difficult"
)

// currentOtherValue is reported as the current value of "other" alternatives,
// which replace the standard most-favoured-nation rate.
const currentOtherValue = "MFN"

// Recommendation is one suggested change for one product. It is created by
// the Engine and never modified afterwards.
type Recommendation struct {
	ProductID        string                 `json:"productId"`
	Type             entity.AlternativeType `json:"type"`
	CurrentValue     string                 `json:"currentValue"`
	RecommendedValue string                 `json:"recommendedValue"`
	CurrentRate      float64                `json:"currentRate"`
	RecommendedRate  float64                `json:"recommendedRate"`

	// PotentialSaving is the per-unit duty saved, rounded to cents.
	PotentialSaving decimal.Decimal `json:"potentialSaving"`

	// SavingPercentage is the relative reduction of the duty rate, in percent.
	SavingPercentage decimal.Decimal `json:"savingPercentage"`

	// AnnualSaving is PotentialSaving times the product's annual volume, or
	// zero when the volume is unknown.
	AnnualSaving decimal.Decimal `json:"annualSaving"`

	ConfidenceScore float64     `json:"confidenceScore"`
	RiskLevel       RiskLevel   `json:"riskLevel"`
	Feasibility     Feasibility `json:"feasibility"`
	Reason          string      `json:"reason"`
}

// riskFor maps a confidence score to a risk level. Origin changes carry one
// extra level of risk because they move the supply chain.
func riskFor(t entity.AlternativeType, confidence float64) RiskLevel {
	risk := RiskHigh
	switch {
	case confidence >= 0.85:
		risk = RiskLow
	case confidence >= 0.6:
		risk = RiskMedium
	}

	if t == entity.AlternativeOrigin {
		switch risk {
		case RiskLow:
			risk = RiskMedium
		case RiskMedium:
			risk = RiskHigh
		}
	}
	return risk
}

func feasibilityFor(t entity.AlternativeType, risk RiskLevel) Feasibility {
	switch {
	case t == entity.AlternativeOrigin:
		return FeasibilityDifficult
	case t == entity.AlternativeClassification && risk == RiskLow:
		return FeasibilityEasy
	default:
		return FeasibilityModerate
	}
}

// less orders recommendations by potential saving descending, then saving
// percentage descending, then product id, recommended value and type ascending.
func less(a, b Recommendation) bool {
	if c := a.PotentialSaving.Cmp(b.PotentialSaving); c != 0 {
		return c > 0
	}
	if c := a.SavingPercentage.Cmp(b.SavingPercentage); c != 0 {
		return c > 0
	}
	if a.ProductID != b.ProductID {
		return a.ProductID < b.ProductID
	}
	if a.RecommendedValue != b.RecommendedValue {
		return a.RecommendedValue < b.RecommendedValue
	}
	return a.Type < b.Type
}
