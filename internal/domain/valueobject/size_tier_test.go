package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func measure(l, w, h, lb float64) NormalizedMeasurement {
	return NormalizedMeasurement{LengthIn: l, WidthIn: w, HeightIn: h, WeightLb: lb}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		m    NormalizedMeasurement
		want SizeTier
	}{
		{"small standard phone case", measure(10, 6, 0.5, 0.75), SizeTierSmallStandard},
		{"small standard exact boundary", measure(15, 12, 0.75, 1), SizeTierSmallStandard},
		{"small standard any orientation", measure(0.75, 15, 12, 1), SizeTierSmallStandard},
		{"too thick for small", measure(10, 6, 0.76, 0.5), SizeTierLargeStandard},
		{"too heavy for small", measure(10, 6, 0.5, 1.01), SizeTierLargeStandard},
		{"large standard box", measure(16, 10, 4, 2.5), SizeTierLargeStandard},
		{"large standard exact boundary", measure(18, 14, 8, 20), SizeTierLargeStandard},
		{"longest side over large", measure(60, 30, 5, 15), SizeTierOversize},
		{"weight over large", measure(10, 10, 5, 20.5), SizeTierOversize},
		{"oversize at special thresholds", measure(108, 40, 42.5, 70), SizeTierOversize},
		{"special by length", measure(108.1, 10, 10, 30), SizeTierSpecialOversize},
		{"special by girth", measure(90, 50, 33, 40), SizeTierSpecialOversize},
		{"special by weight", measure(20, 20, 20, 70.5), SizeTierSpecialOversize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.m))
		})
	}
}

func TestClassify_MetricBoundaryIsInclusive(t *testing.T) {
	m, err := Normalize(
		NewDimensions(38.1, 30.48, 1.905, LengthUnitCentimeter),
		NewWeight(16, WeightUnitOunce),
	)
	require.NoError(t, err)
	assert.Equal(t, SizeTierSmallStandard, Classify(m))
}

func TestClassify_IsTotal(t *testing.T) {
	sides := []float64{0.01, 0.75, 1, 8, 12, 14.5, 15, 18, 40, 82.5, 108, 120}
	weights := []float64{0.01, 1, 1.5, 20, 21, 70, 71, 200}

	for _, l := range sides {
		for _, w := range sides {
			for _, h := range sides {
				for _, lb := range weights {
					tier := Classify(measure(l, w, h, lb))
					require.True(t, tier.IsValid(), "no tier for %vx%vx%v %vlb", l, w, h, lb)
				}
			}
		}
	}
}

func TestSizeTier_TextRoundTrip(t *testing.T) {
	for _, tier := range AllSizeTiers() {
		text, err := tier.MarshalText()
		require.NoError(t, err)

		var parsed SizeTier
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, tier, parsed)
	}

	_, err := SizeTier(0).MarshalText()
	assert.Error(t, err)
	_, err = ParseSizeTier("jumbo")
	assert.Error(t, err)
}

func TestSizeTier_JSON(t *testing.T) {
	out, err := json.Marshal(map[string]SizeTier{"tier": SizeTierSpecialOversize})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tier":"special_oversize"}`, string(out))
}

func TestSizeTierLimits_CoverEveryTier(t *testing.T) {
	limits := SizeTierLimits()
	require.Len(t, limits, len(AllSizeTiers()))
	for i, tier := range AllSizeTiers() {
		assert.Equal(t, tier, limits[i].Tier)
	}
}
