package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/hapkiduki/landedcost/internal/application/dto"
	"github.com/hapkiduki/landedcost/internal/domain/fba"
	"github.com/hapkiduki/landedcost/internal/domain/landedcost"
	"github.com/hapkiduki/landedcost/internal/domain/optimization"
	"github.com/hapkiduki/landedcost/internal/domain/scenario"
	"github.com/hapkiduki/landedcost/internal/domain/valueobject"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(d decimal.Decimal, c valueobject.Currency) string {
	return valueobject.NewMoney(d, c).Format()
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

func writeFees(w io.Writer, fees fba.FeeBreakdown) error {
	m := fees.Measurement
	usd := func(d decimal.Decimal) string { return money(d, valueobject.CurrencyUSD) }

	tw := newTable(w)
	fmt.Fprintf(tw, "Size tier\t%s\n", fees.SizeTier)
	fmt.Fprintf(tw, "Package\t%g x %g x %g in, %g lb\n", m.LengthIn, m.WidthIn, m.HeightIn, m.WeightLb)
	fmt.Fprintf(tw, "Fulfillment fee\t%s\n", usd(fees.FulfillmentFee))
	fmt.Fprintf(tw, "Storage fee (daily)\t%s\n", usd(fees.StorageFee))
	fmt.Fprintf(tw, "Referral fee\t%s\n", usd(fees.ReferralFee))
	fmt.Fprintf(tw, "Other fees\t%s\n", usd(fees.OtherFees))
	fmt.Fprintf(tw, "Total\t%s\n", usd(fees.Total))
	fmt.Fprintf(tw, "Storage (per month)\t%s\n", usd(fees.MonthlyStorageFee))
	return tw.Flush()
}

func writeLandedCost(w io.Writer, b landedcost.Breakdown, base landedcost.DutyBase) error {
	cur := b.Currency

	tw := newTable(w)
	fmt.Fprintf(tw, "Duty base\t%s\n", base)
	fmt.Fprintf(tw, "Product value\t%s\n", money(b.ProductValue, cur))
	fmt.Fprintf(tw, "Shipping\t%s\n", money(b.ShippingCost, cur))
	fmt.Fprintf(tw, "Insurance\t%s\n", money(b.InsuranceCost, cur))
	fmt.Fprintf(tw, "Dutyable value\t%s\n", money(b.DutyableValue, cur))
	fmt.Fprintf(tw, "Duty\t%s\t(%s effective)\n", money(b.DutyAmount, cur), percent(b.EffectiveDutyRate))
	fmt.Fprintf(tw, "VAT\t%s\n", money(b.VATAmount, cur))
	fmt.Fprintf(tw, "FBA fees\t%s\n", money(b.FBAFeeAmount, cur))
	fmt.Fprintf(tw, "Total landed cost\t%s\n", money(b.TotalLandedCost, cur))
	fmt.Fprintf(tw, "Cost per unit\t%s\t(%d units)\n", money(b.CostPerUnit, cur), b.Quantity)
	return tw.Flush()
}

func writeTiers(w io.Writer, resp dto.SizeTiersResponse) error {
	bound := func(v float64) string {
		if v == 0 {
			return "-"
		}
		return fmt.Sprintf("%g", v)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "TIER\tLONGEST\tMEDIAN\tSHORTEST\tGIRTH\tWEIGHT\tSTORAGE/FT3\tFULFILLMENT")
	for _, t := range resp.Tiers {
		brackets := make([]string, 0, len(t.Brackets))
		for _, b := range t.Brackets {
			limit := "above"
			if b.MaxWeightLb != nil {
				limit = fmt.Sprintf("<=%glb", *b.MaxWeightLb)
			}
			brackets = append(brackets, limit+" "+money(b.Fee, valueobject.CurrencyUSD))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Tier, bound(t.MaxLongest), bound(t.MaxMedian), bound(t.MaxShortest), bound(t.MaxGirth), bound(t.MaxWeight),
			money(t.StorageRatePerCubicFoot, valueobject.CurrencyUSD), strings.Join(brackets, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tREFERRAL\tOTHER")
	for _, name := range slices.Sorted(maps.Keys(resp.Categories)) {
		c := resp.Categories[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, percent(c.ReferralRate.Mul(decimal.NewFromInt(100))), money(c.OtherFees, valueobject.CurrencyUSD))
	}
	fmt.Fprintf(tw, "(other)\t%s\t%s\n", percent(resp.Default.ReferralRate.Mul(decimal.NewFromInt(100))), money(resp.Default.OtherFees, valueobject.CurrencyUSD))
	return tw.Flush()
}

func writeRecommendations(w io.Writer, recs []optimization.Recommendation, cur valueobject.Currency) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No duty-saving alternatives found.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "PRODUCT\tTYPE\tCHANGE\tSAVING/UNIT\tSAVING %\tANNUAL\tRISK\tFEASIBILITY")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s -> %s\t%s\t%s\t%s\t%s\t%s\n",
			r.ProductID, r.Type, r.CurrentValue, r.RecommendedValue,
			money(r.PotentialSaving, cur), percent(r.SavingPercentage), money(r.AnnualSaving, cur),
			r.RiskLevel, r.Feasibility)
	}
	return tw.Flush()
}

func writeComparison(w io.Writer, resp dto.CompareScenariosResponse) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "SCENARIO\tREVENUE\tLANDED COST\tPROFIT\tMARGIN\tROI\tBREAK-EVEN")
	for i, r := range resp.Scenarios {
		cur := r.LandedCost.Currency
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("Scenario %d", i+1)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			name, money(r.Revenue, cur), money(r.LandedCost.TotalLandedCost, cur), money(r.ProfitAmount, cur),
			percent(r.ProfitMargin), percent(r.ROI), r.BreakEvenQuantity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writeAdvice(w, resp.Comparison)
}

func writeAdvice(w io.Writer, c scenario.Comparison) error {
	if !c.Comparable {
		return nil
	}
	fmt.Fprintf(w, "\nAverage margin %s, average ROI %s\n", percent(c.AverageMargin), percent(c.AverageROI))
	for _, msg := range c.Recommendations {
		if _, err := fmt.Fprintf(w, "  - %s\n", msg); err != nil {
			return err
		}
	}
	return nil
}
