package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/landedcost/internal/application/dto"
	"github.com/hapkiduki/landedcost/internal/domain/fba"
	"github.com/hapkiduki/landedcost/internal/domain/landedcost"
)

func run(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LCE_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(bytes.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestFbaCommand(t *testing.T) {
	out, err := run(t, nil, "fba",
		"--length", "10", "--width", "6", "--height", "0.5",
		"--weight", "12", "--weight-unit", "oz",
		"--category", "Electronics", "--price", "25")
	require.NoError(t, err)

	var fees fba.FeeBreakdown
	require.NoError(t, json.Unmarshal([]byte(out), &fees))
	assert.Equal(t, "small_standard", fees.SizeTier.String())
	assert.True(t, fees.Total.Equal(decimal.RequireFromString("6.02")), "total %s", fees.Total)
}

func TestFbaCommand_Text(t *testing.T) {
	out, err := run(t, nil, "fba", "--format", "text",
		"--length", "10", "--width", "6", "--height", "0.5",
		"--weight", "12", "--weight-unit", "oz",
		"--category", "Electronics", "--price", "25")
	require.NoError(t, err)

	assert.Contains(t, out, "small_standard")
	assert.Contains(t, out, "$6.02")
	assert.Contains(t, out, "Storage (per month)")
}

func TestFbaCommand_InvalidMeasurement(t *testing.T) {
	_, err := run(t, nil, "fba",
		"--length", "10", "--width", "6", "--height", "0.5",
		"--weight", "12", "--weight-unit", "stone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight")
}

func TestFbaCommand_MissingFlags(t *testing.T) {
	_, err := run(t, nil, "fba", "--length", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestLandedCommand(t *testing.T) {
	out, err := run(t, nil, "landed",
		"--value", "100", "--duty-rate", "0.05", "--vat-rate", "0.21",
		"--shipping", "10", "--fba-fee", "19.05")
	require.NoError(t, err)

	var b landedcost.Breakdown
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.True(t, b.TotalLandedCost.Equal(decimal.RequireFromString("158.81")), "total %s", b.TotalLandedCost)
	assert.True(t, b.VATAmount.Equal(decimal.RequireFromString("24.26")))
}

func TestLandedCommand_Text(t *testing.T) {
	out, err := run(t, nil, "landed", "-f", "text",
		"--value", "1000", "--duty-rate", "0.1", "--quantity", "3", "--currency", "eur")
	require.NoError(t, err)

	assert.Contains(t, out, "€1100.00")
	assert.Contains(t, out, "€366.67")
	assert.Contains(t, out, "(3 units)")
	assert.Contains(t, out, "inclusive")
}

func TestLandedCommand_InvalidRate(t *testing.T) {
	_, err := run(t, nil, "landed", "--value", "100", "--duty-rate", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duty rate must be between 0 and 1")
}

func TestTiersCommand(t *testing.T) {
	out, err := run(t, nil, "tiers")
	require.NoError(t, err)

	var resp dto.SizeTiersResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Tiers, 4)

	text, err := run(t, nil, "tiers", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, text, "small_standard")
	assert.Contains(t, text, "special_oversize")
	assert.Contains(t, text, "CATEGORY")
}

func TestRecommendCommand(t *testing.T) {
	out, err := run(t, nil, "recommend", "--catalogue", "testdata/catalogue.json", "sku-1", "unknown")
	require.NoError(t, err)

	var resp dto.OptimizationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "VN", resp.Recommendations[0].RecommendedValue)
	assert.True(t, resp.Recommendations[0].PotentialSaving.Equal(decimal.RequireFromString("5.5")))
	assert.Equal(t, "851829", resp.Recommendations[1].RecommendedValue)
}

func TestRecommendCommand_Flags(t *testing.T) {
	out, err := run(t, nil, "recommend", "--catalogue", "testdata/catalogue.json",
		"--threshold", "0.2", "--max", "1", "sku-1")
	require.NoError(t, err)

	var resp dto.OptimizationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "VN", resp.Recommendations[0].RecommendedValue)
}

func TestRecommendCommand_Text(t *testing.T) {
	out, err := run(t, nil, "recommend", "-f", "text", "--catalogue", "testdata/catalogue.json", "sku-1")
	require.NoError(t, err)
	assert.Contains(t, out, "CN -> VN")
	assert.Contains(t, out, "$5500.00")

	out, err = run(t, nil, "recommend", "-f", "text", "--catalogue", "testdata/catalogue.json", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "No duty-saving alternatives found.")
}

func TestRecommendCommand_NoCatalogue(t *testing.T) {
	_, err := run(t, nil, "recommend", "sku-1")
	assert.ErrorIs(t, err, errNoCatalogue)
}

func TestCompareCommand(t *testing.T) {
	out, err := run(t, nil, "compare", "testdata/scenarios.json")
	require.NoError(t, err)

	var resp dto.CompareScenariosResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Scenarios, 2)
	assert.Equal(t, "discount", resp.Scenarios[0].Name)
	assert.Equal(t, "retail", resp.Scenarios[1].Name)
	assert.True(t, resp.Comparison.ProfitDifference.Equal(decimal.NewFromInt(644)))
}

func TestCompareCommand_Stdin(t *testing.T) {
	data, err := os.ReadFile("testdata/scenarios.json")
	require.NoError(t, err)

	out, err := run(t, data, "compare", "-", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "retail")
	assert.Contains(t, out, "$743.00")
	assert.Contains(t, out, "Average margin")
}

func TestCompareCommand_UnknownField(t *testing.T) {
	_, err := run(t, []byte(`{"scenarios": [], "extra": 1}`), "compare", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode scenarios")
}

func TestUnknownFormat(t *testing.T) {
	_, err := run(t, nil, "tiers", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.Equal(t, "landedcost version dev\n", out)
}
