package optimization

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/landedcost/internal/domain/entity"
	"github.com/hapkiduki/landedcost/internal/domain/landedcost"
	"github.com/hapkiduki/landedcost/internal/domain/repository"
)

type fakeProducts map[string]*entity.Product

func (f fakeProducts) FetchProduct(_ context.Context, id string) (*entity.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

type fakeAlternatives map[string][]entity.Alternative

func (f fakeAlternatives) Alternatives(_ context.Context, p *entity.Product) ([]entity.Alternative, error) {
	return f[p.ID], nil
}

type failingProducts struct{ err error }

func (f failingProducts) FetchProduct(context.Context, string) (*entity.Product, error) {
	return nil, f.err
}

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Warn(msg string, _ ...interface{}) {
	l.warnings = append(l.warnings, msg)
}

func mustProduct(t *testing.T, id string, cost, shipping string, rate float64, volume int64) *entity.Product {
	t.Helper()
	p, err := entity.NewProduct(id, "Electronics", decimal.RequireFromString(cost),
		entity.Classification{HSCode: "851830", OriginCountry: "CN", DutyRate: rate})
	require.NoError(t, err)
	withLogistics := p.WithLogistics(decimal.RequireFromString(shipping), decimal.Zero).WithAnnualVolume(volume)
	return &withLogistics
}

func fixture(t *testing.T) (fakeProducts, fakeAlternatives) {
	products := fakeProducts{
		"p1": mustProduct(t, "p1", "100", "10", 0.05, 1000),
		"p2": mustProduct(t, "p2", "200", "0", 0.10, 0),
	}
	alternatives := fakeAlternatives{
		"p1": {
			{Type: entity.AlternativeClassification, Value: "851829", DutyRate: 0.02, Confidence: 0.9},
			{Type: entity.AlternativeOrigin, Value: "VN", DutyRate: 0, Confidence: 0.7},
			{Type: entity.AlternativeOther, Value: "GSP", DutyRate: 0.04, Confidence: 0.4},
			{Type: entity.AlternativeClassification, Value: "851890", DutyRate: 0.06, Confidence: 0.95},
			{Type: entity.AlternativeOther, Value: "USMCA", DutyRate: 0.01, Confidence: 0.6},
		},
		"p2": {
			{Type: entity.AlternativeClassification, Value: "940370", DutyRate: 0.0725, Confidence: 0.85},
		},
	}
	return products, alternatives
}

func TestGenerateRecommendations_Ranking(t *testing.T) {
	products, alternatives := fixture(t)
	engine := NewEngine(products, alternatives)

	got, err := engine.GenerateRecommendations(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Len(t, got, 4)

	type row struct {
		product, value, saving, pct string
	}
	want := []row{
		{"p1", "VN", "5.5", "100"},
		{"p2", "940370", "5.5", "27.5"},
		{"p1", "USMCA", "4.4", "80"},
		{"p1", "851829", "3.3", "60"},
	}
	for i, w := range want {
		assert.Equal(t, w.product, got[i].ProductID, "row %d", i)
		assert.Equal(t, w.value, got[i].RecommendedValue, "row %d", i)
		assert.True(t, got[i].PotentialSaving.Equal(decimal.RequireFromString(w.saving)), "row %d saving %s", i, got[i].PotentialSaving)
		assert.True(t, got[i].SavingPercentage.Equal(decimal.RequireFromString(w.pct)), "row %d pct %s", i, got[i].SavingPercentage)
	}

	vn := got[0]
	assert.Equal(t, entity.AlternativeOrigin, vn.Type)
	assert.Equal(t, "CN", vn.CurrentValue)
	assert.Equal(t, RiskHigh, vn.RiskLevel)
	assert.Equal(t, FeasibilityDifficult, vn.Feasibility)
	assert.True(t, vn.AnnualSaving.Equal(decimal.NewFromInt(5500)))
	assert.Contains(t, vn.Reason, "from CN to VN")

	reclass := got[3]
	assert.Equal(t, "851830", reclass.CurrentValue)
	assert.Equal(t, RiskLow, reclass.RiskLevel)
	assert.Equal(t, FeasibilityEasy, reclass.Feasibility)

	assert.True(t, got[1].AnnualSaving.IsZero(), "unknown volume")
	assert.Equal(t, currentOtherValue, got[2].CurrentValue)
}

func TestGenerateRecommendations_Options(t *testing.T) {
	products, alternatives := fixture(t)

	t.Run("cap per product", func(t *testing.T) {
		got, err := NewEngine(products, alternatives, WithMaxRecommendations(1)).
			GenerateRecommendations(context.Background(), []string{"p1"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "VN", got[0].RecommendedValue)
	})

	t.Run("lower threshold admits more", func(t *testing.T) {
		got, err := NewEngine(products, alternatives, WithConfidenceThreshold(0.3), WithMaxRecommendations(10)).
			GenerateRecommendations(context.Background(), []string{"p1"})
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, "GSP", got[3].RecommendedValue)
		assert.True(t, got[3].PotentialSaving.Equal(decimal.RequireFromString("1.1")))
	})

	t.Run("exclusive duty base", func(t *testing.T) {
		calc := landedcost.NewCalculator(landedcost.WithDutyBase(landedcost.DutyBaseExclusive))
		got, err := NewEngine(products, alternatives, WithLandedCost(calc)).
			GenerateRecommendations(context.Background(), []string{"p1"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.True(t, got[0].PotentialSaving.Equal(decimal.NewFromInt(5)))
		assert.True(t, got[2].PotentialSaving.Equal(decimal.NewFromInt(3)))
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		engine := NewEngine(products, alternatives, WithConfidenceThreshold(2), WithMaxRecommendations(0))
		assert.Equal(t, DefaultConfidenceThreshold, engine.ConfidenceThreshold())
		assert.Equal(t, DefaultMaxRecommendations, engine.MaxRecommendations())
	})
}

func TestGenerateRecommendations_SkipsUnknownAndDuplicates(t *testing.T) {
	products, alternatives := fixture(t)
	log := &recordingLogger{}
	engine := NewEngine(products, alternatives, WithLogger(log))

	got, err := engine.GenerateRecommendations(context.Background(), []string{"p2", "missing", " p2 ", ""})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ProductID)
	assert.Equal(t, []string{"skipping unknown product"}, log.warnings)
}

func TestGenerateRecommendations_TieBreaksOnProductID(t *testing.T) {
	products := fakeProducts{
		"b": mustProduct(t, "b", "50", "0", 0.1, 0),
		"a": mustProduct(t, "a", "50", "0", 0.1, 0),
	}
	alt := []entity.Alternative{{Type: entity.AlternativeClassification, Value: "851829", DutyRate: 0.05, Confidence: 1}}
	alternatives := fakeAlternatives{"a": alt, "b": alt}

	got, err := NewEngine(products, alternatives).GenerateRecommendations(context.Background(), []string{"b", "a"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ProductID)
	assert.Equal(t, "b", got[1].ProductID)
}

func TestGenerateRecommendations_Errors(t *testing.T) {
	_, alternatives := fixture(t)

	boom := errors.New("connection reset")
	_, err := NewEngine(failingProducts{err: boom}, alternatives).
		GenerateRecommendations(context.Background(), []string{"p1"})
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	products, _ := fixture(t)
	_, err = NewEngine(products, alternatives).GenerateRecommendations(ctx, []string{"p1"})
	assert.ErrorIs(t, err, context.Canceled)

	corrupt := fakeProducts{"p1": {ID: "p1", Cost: decimal.Zero}}
	_, err = NewEngine(corrupt, alternatives).GenerateRecommendations(context.Background(), []string{"p1"})
	assert.ErrorIs(t, err, repository.ErrCorruptRecord)
}

func TestGenerateRecommendations_Empty(t *testing.T) {
	products, alternatives := fixture(t)
	got, err := NewEngine(products, alternatives).GenerateRecommendations(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRiskAndFeasibility(t *testing.T) {
	tests := []struct {
		typ         entity.AlternativeType
		confidence  float64
		risk        RiskLevel
		feasibility Feasibility
	}{
		{entity.AlternativeClassification, 0.85, RiskLow, FeasibilityEasy},
		{entity.AlternativeClassification, 0.6, RiskMedium, FeasibilityModerate},
		{entity.AlternativeClassification, 0.59, RiskHigh, FeasibilityModerate},
		{entity.AlternativeOrigin, 0.9, RiskMedium, FeasibilityDifficult},
		{entity.AlternativeOrigin, 0.7, RiskHigh, FeasibilityDifficult},
		{entity.AlternativeOrigin, 0.1, RiskHigh, FeasibilityDifficult},
		{entity.AlternativeOther, 0.99, RiskLow, FeasibilityModerate},
	}
	for _, tt := range tests {
		risk := riskFor(tt.typ, tt.confidence)
		assert.Equal(t, tt.risk, risk, "%s %.2f", tt.typ, tt.confidence)
		assert.Equal(t, tt.feasibility, feasibilityFor(tt.typ, risk), "%s %.2f", tt.typ, tt.confidence)
	}
}
