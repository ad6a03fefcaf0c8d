package postgres

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/landedcost/internal/domain/entity"
	"github.com/hapkiduki/landedcost/internal/domain/repository"
)

func newTestRepository(t *testing.T) *ProductRepository {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	pool, err := NewPool(t.Context(), PoolConfig{URL: dbURL, ApplicationName: "landedcost-test"})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(t.Context(), pool))
	return NewProductRepository(pool)
}

func TestProductRepository_RoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := t.Context()

	p, err := entity.NewProduct("it-speaker-1", "Electronics", decimal.RequireFromString("42.50"),
		entity.Classification{HSCode: "851822", OriginCountry: "CN", DutyRate: 0.049})
	require.NoError(t, err)
	withLogistics := p.WithLogistics(decimal.RequireFromString("3.25"), decimal.RequireFromString("0.40")).WithAnnualVolume(2400)
	require.NoError(t, repo.SaveProduct(ctx, &withLogistics))

	alts := []entity.Alternative{
		{Type: entity.AlternativeClassification, Value: "851829", DutyRate: 0.021, Confidence: 0.8},
		{Type: entity.AlternativeOrigin, Value: "VN", DutyRate: 0, Confidence: 0.65, Note: "supplier has a VN plant"},
	}
	require.NoError(t, repo.ReplaceAlternatives(ctx, "it-speaker-1", alts))

	got, err := repo.FetchProduct(ctx, "it-speaker-1")
	require.NoError(t, err)
	assert.True(t, got.Cost.Equal(decimal.RequireFromString("42.5")))
	assert.True(t, got.ShippingCost.Equal(decimal.RequireFromString("3.25")))
	assert.Equal(t, int64(2400), got.AnnualVolume)
	assert.InDelta(t, 0.049, got.Classification.DutyRate, 1e-9)

	gotAlts, err := repo.Alternatives(ctx, got)
	require.NoError(t, err)
	require.Len(t, gotAlts, 2)
	assert.Equal(t, entity.AlternativeOrigin, gotAlts[1].Type)
	assert.Equal(t, "supplier has a VN plant", gotAlts[1].Note)

	require.NoError(t, repo.ReplaceAlternatives(ctx, "it-speaker-1", nil))
	gotAlts, err = repo.Alternatives(ctx, got)
	require.NoError(t, err)
	assert.Empty(t, gotAlts)
}

func TestProductRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.FetchProduct(t.Context(), "does-not-exist")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestNewPool_RequiresURL(t *testing.T) {
	_, err := NewPool(t.Context(), PoolConfig{})
	assert.Error(t, err)
}
