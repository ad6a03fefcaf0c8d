package optimization

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hapkiduki/landedcost/internal/domain/entity"
	"github.com/hapkiduki/landedcost/internal/domain/landedcost"
	"github.com/hapkiduki/landedcost/internal/domain/repository"
	"github.com/hapkiduki/landedcost/internal/domain/valueobject"
)

// Defaults applied by NewEngine.
const (
	DefaultConfidenceThreshold = 0.5
	DefaultMaxRecommendations  = 3
)

var hundred = decimal.NewFromInt(100)

// Logger is the subset of the application logger the engine writes to.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

// Engine turns product snapshots and their alternatives into ranked
// recommendations. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	products     repository.ProductReader
	alternatives repository.AlternativeLookup
	landed       *landedcost.Calculator
	threshold    float64
	maxPerItem   int
	log          Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfidenceThreshold drops alternatives whose confidence is below t.
// Values outside [0,1] are ignored.
func WithConfidenceThreshold(t float64) Option {
	return func(e *Engine) {
		if t >= 0 && t <= 1 {
			e.threshold = t
		}
	}
}

// WithMaxRecommendations caps the recommendations kept per product.
// Values below 1 are ignored.
func WithMaxRecommendations(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.maxPerItem = n
		}
	}
}

// WithLandedCost sets the calculator whose duty base policy decides the
// dutyable value a saving is computed on.
func WithLandedCost(c *landedcost.Calculator) Option {
	return func(e *Engine) {
		if c != nil {
			e.landed = c
		}
	}
}

// WithLogger sets the logger used to report skipped products and candidates.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates an Engine reading through the given collaborators.
//
// Parameters:
//   - products: source of product snapshots
//   - alternatives: source of candidate classifications and origins
//   - opts: optional settings
//
// Returns:
//   - *Engine: the configured engine
func NewEngine(products repository.ProductReader, alternatives repository.AlternativeLookup, opts ...Option) *Engine {
	e := &Engine{
		products:     products,
		alternatives: alternatives,
		landed:       landedcost.NewCalculator(),
		threshold:    DefaultConfidenceThreshold,
		maxPerItem:   DefaultMaxRecommendations,
		log:          nopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ConfidenceThreshold returns the minimum confidence an alternative needs.
func (e *Engine) ConfidenceThreshold() float64 { return e.threshold }

// MaxRecommendations returns the per-product cap.
func (e *Engine) MaxRecommendations() int { return e.maxPerItem }

// GenerateRecommendations evaluates every product and returns the
// recommendations that save duty, ranked across all products.
//
// Business Rules:
//  1. Each distinct id is evaluated once, in input order.
//  2. Products that do not exist are skipped and logged.
//  3. Alternatives below the confidence threshold, or that fail validation,
//     are dropped.
//  4. saving = (current rate - recommended rate) * dutyable value, rounded to
//     cents; only positive savings are emitted.
//  5. At most MaxRecommendations are kept per product (largest savings first).
//  6. The result is ordered by saving, saving percentage, product id and
//     recommended value.
//
// Parameters:
//   - ctx: context for cancellation; checked before each product
//   - productIDs: products to evaluate
//
// Returns:
//   - []Recommendation: ranked recommendations (never nil)
//   - error: the context error, or a wrapped collaborator error
func (e *Engine) GenerateRecommendations(ctx context.Context, productIDs []string) ([]Recommendation, error) {
	out := make([]Recommendation, 0)
	seen := make(map[string]struct{}, len(productIDs))

	for _, raw := range productIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		recs, err := e.forProduct(ctx, id)
		if err != nil {
			if repository.IsNotFoundError(err) {
				e.log.Warn("skipping unknown product", "product_id", id)
				continue
			}
			return nil, err
		}
		out = append(out, recs...)
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

func (e *Engine) forProduct(ctx context.Context, id string) ([]Recommendation, error) {
	product, err := e.products.FetchProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", id, err)
	}
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("product %s: %w: %v", id, repository.ErrCorruptRecord, err)
	}

	alts, err := e.alternatives.Alternatives(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("alternatives for product %s: %w", id, err)
	}

	dutyable := e.landed.DutyableValue(product.Cost, product.ShippingCost, product.InsuranceCost)

	recs := make([]Recommendation, 0, len(alts))
	for _, alt := range alts {
		if err := alt.Validate(); err != nil {
			e.log.Warn("ignoring invalid alternative", "product_id", id, "value", alt.Value, "error", err)
			continue
		}
		if alt.Confidence < e.threshold {
			e.log.Debug("alternative below confidence threshold",
				"product_id", id, "value", alt.Value, "confidence", alt.Confidence)
			continue
		}
		if rec, ok := e.evaluate(product, alt, dutyable); ok {
			recs = append(recs, rec)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool { return less(recs[i], recs[j]) })
	if len(recs) > e.maxPerItem {
		recs = recs[:e.maxPerItem]
	}
	return recs, nil
}

// evaluate builds the recommendation for one alternative, or reports false
// when the alternative saves nothing.
func (e *Engine) evaluate(p *entity.Product, alt entity.Alternative, dutyable decimal.Decimal) (Recommendation, bool) {
	current := currentValue(p, alt.Type)
	if strings.EqualFold(current, alt.Value) {
		return Recommendation{}, false
	}

	currentRate := decimal.NewFromFloat(p.Classification.DutyRate)
	rateDelta := currentRate.Sub(decimal.NewFromFloat(alt.DutyRate))
	saving := valueobject.RoundCents(rateDelta.Mul(dutyable))
	if !saving.IsPositive() {
		return Recommendation{}, false
	}

	annual := decimal.Zero
	if p.AnnualVolume > 0 {
		annual = saving.Mul(decimal.NewFromInt(p.AnnualVolume))
	}

	risk := riskFor(alt.Type, alt.Confidence)
	return Recommendation{
		ProductID:        p.ID,
		Type:             alt.Type,
		CurrentValue:     current,
		RecommendedValue: alt.Value,
		CurrentRate:      p.Classification.DutyRate,
		RecommendedRate:  alt.DutyRate,
		PotentialSaving:  saving,
		SavingPercentage: valueobject.RoundCents(rateDelta.Div(currentRate).Mul(hundred)),
		AnnualSaving:     annual,
		ConfidenceScore:  alt.Confidence,
		RiskLevel:        risk,
		Feasibility:      feasibilityFor(alt.Type, risk),
		Reason:           reason(alt, current, p.Classification.DutyRate),
	}, true
}

func currentValue(p *entity.Product, t entity.AlternativeType) string {
	switch t {
	case entity.AlternativeClassification:
		return p.Classification.HSCode
	case entity.AlternativeOrigin:
		return p.Classification.OriginCountry
	default:
		return currentOtherValue
	}
}

func reason(alt entity.Alternative, current string, currentRate float64) string {
	var verb string
	switch alt.Type {
	case entity.AlternativeClassification:
		verb = "Reclassifying"
	case entity.AlternativeOrigin:
		verb = "Sourcing"
	default:
		verb = "Claiming"
	}
	msg := fmt.Sprintf("%s from %s to %s lowers the duty rate from %.2f%% to %.2f%%",
		verb, current, alt.Value, currentRate*100, alt.DutyRate*100)
	if alt.Note != "" {
		msg += " (" + alt.Note + ")"
	}
	return msg
}
