package scenario

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hapkiduki/landedcost/internal/domain/valueobject"
)

// Advisory thresholds, in percent.
const (
	DefaultMinMargin = 10
	DefaultMinROI    = 15
)

// Comparison is the outcome of comparing scenarios. When fewer than two
// scenarios are given, Comparable is false and every other field is empty.
type Comparison struct {
	Comparable bool    `json:"comparable"`
	Best       *Result `json:"best,omitempty"`
	Worst      *Result `json:"worst,omitempty"`

	// CostDifference is the worst scenario's total landed cost minus the best's.
	CostDifference decimal.Decimal `json:"costDifference"`

	// ProfitDifference is the best scenario's profit minus the worst's.
	ProfitDifference decimal.Decimal `json:"profitDifference"`

	AverageMargin decimal.Decimal `json:"averageMargin"`
	AverageROI    decimal.Decimal `json:"averageRoi"`

	// Recommendations are advisory messages; they carry no numeric contract.
	Recommendations []string `json:"recommendations"`
}

// Comparator compares scenario results.
type Comparator struct {
	minMargin decimal.Decimal
	minROI    decimal.Decimal
}

// NewComparator creates a Comparator that flags scenarios whose margin is
// below minMargin and a set whose average ROI is below minROI (both percent).
func NewComparator(minMargin, minROI float64) *Comparator {
	return &Comparator{
		minMargin: decimal.NewFromFloat(minMargin),
		minROI:    decimal.NewFromFloat(minROI),
	}
}

// DefaultComparator uses DefaultMinMargin and DefaultMinROI.
func DefaultComparator() *Comparator {
	return NewComparator(DefaultMinMargin, DefaultMinROI)
}

// Compare picks the best and worst scenario by profit and reports the gaps.
// Ties resolve to the scenario that comes first in results.
//
// Parameters:
//   - results: the scenarios to compare
//
// Returns:
//   - Comparison: the comparison, or an empty one for fewer than two results
func (c *Comparator) Compare(results []Result) Comparison {
	if len(results) < 2 {
		return Comparison{Recommendations: []string{}}
	}

	bestIdx, worstIdx := 0, 0
	marginSum, roiSum := decimal.Zero, decimal.Zero
	for i, r := range results {
		if r.ProfitAmount.GreaterThan(results[bestIdx].ProfitAmount) {
			bestIdx = i
		}
		if r.ProfitAmount.LessThan(results[worstIdx].ProfitAmount) {
			worstIdx = i
		}
		marginSum = marginSum.Add(r.ProfitMargin)
		roiSum = roiSum.Add(r.ROI)
	}

	best, worst := results[bestIdx], results[worstIdx]
	n := decimal.NewFromInt(int64(len(results)))
	cmp := Comparison{
		Comparable:       true,
		Best:             &best,
		Worst:            &worst,
		CostDifference:   worst.LandedCost.TotalLandedCost.Sub(best.LandedCost.TotalLandedCost),
		ProfitDifference: best.ProfitAmount.Sub(worst.ProfitAmount),
		AverageMargin:    valueobject.RoundCents(marginSum.Div(n)),
		AverageROI:       valueobject.RoundCents(roiSum.Div(n)),
	}
	cmp.Recommendations = c.advise(results, cmp, bestIdx, worstIdx)
	return cmp
}

func (c *Comparator) advise(results []Result, cmp Comparison, bestIdx, worstIdx int) []string {
	advice := make([]string, 0, len(results)+2)

	for i, r := range results {
		name := displayName(r, i)
		switch {
		case r.ProfitAmount.IsNegative():
			advice = append(advice, fmt.Sprintf("%s loses %s; review pricing or sourcing",
				name, money(r.ProfitAmount.Neg(), r)))
		case r.ProfitMargin.LessThan(c.minMargin):
			advice = append(advice, fmt.Sprintf("%s has a profit margin of %s%%, below the %s%% target",
				name, r.ProfitMargin.StringFixed(2), c.minMargin.String()))
		}
	}

	if cmp.AverageROI.LessThan(c.minROI) {
		advice = append(advice, fmt.Sprintf("Average ROI is %s%%, below the %s%% target",
			cmp.AverageROI.StringFixed(2), c.minROI.String()))
	}

	if cmp.ProfitDifference.IsPositive() {
		advice = append(advice, fmt.Sprintf("%s earns %s more than %s",
			displayName(results[bestIdx], bestIdx), money(cmp.ProfitDifference, results[bestIdx]),
			displayName(results[worstIdx], worstIdx)))
	}
	return advice
}

func displayName(r Result, i int) string {
	if r.Name != "" {
		return fmt.Sprintf("Scenario %q", r.Name)
	}
	return fmt.Sprintf("Scenario %d", i+1)
}

func money(amount decimal.Decimal, r Result) string {
	currency := r.LandedCost.Currency
	if currency == "" {
		currency = valueobject.CurrencyUSD
	}
	return valueobject.NewMoney(amount, currency).Format()
}
