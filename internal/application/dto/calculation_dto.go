package dto

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hapkiduki/landedcost/internal/domain/fba"
	"github.com/hapkiduki/landedcost/internal/domain/feeschedule"
	"github.com/hapkiduki/landedcost/internal/domain/landedcost"
	"github.com/hapkiduki/landedcost/internal/domain/optimization"
	"github.com/hapkiduki/landedcost/internal/domain/scenario"
	"github.com/hapkiduki/landedcost/internal/domain/valueobject"
)

// Numeric ranges are checked by the calculators so their field-specific
// messages reach the caller; the tags below cover structure only.

// DimensionsRequest is the package size in the request's unit.
type DimensionsRequest struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit" validate:"required,max=16"`
}

// WeightRequest is the package weight in the request's unit.
type WeightRequest struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit" validate:"required,max=16"`
}

// FbaFeeRequest is the body of POST /api/v1/fees/fba.
type FbaFeeRequest struct {
	Dimensions DimensionsRequest `json:"dimensions" validate:"required"`
	Weight     WeightRequest     `json:"weight" validate:"required"`
	Category   string            `json:"category" validate:"max=100"`
	Price      float64           `json:"price"`
}

// ToInput converts the request to the calculator input.
func (r FbaFeeRequest) ToInput() fba.Input {
	return fba.Input{
		Dimensions: toDimensions(r.Dimensions),
		Weight:     toWeight(r.Weight),
		Category:   r.Category,
		Price:      r.Price,
	}
}

// LandedCostRequest is the body of POST /api/v1/landed-cost.
type LandedCostRequest struct {
	ProductValue  float64 `json:"productValue"`
	DutyRate      float64 `json:"dutyRate"`
	VATRate       float64 `json:"vatRate"`
	ShippingCost  float64 `json:"shippingCost"`
	InsuranceCost float64 `json:"insuranceCost"`
	FBAFeeAmount  float64 `json:"fbaFeeAmount"`
	Quantity      int     `json:"quantity"`
	Currency      string  `json:"currency" validate:"omitempty,currency"`
}

// ToInput converts the request to the calculator input.
func (r LandedCostRequest) ToInput() landedcost.Input {
	return landedcost.Input{
		ProductValue:  r.ProductValue,
		DutyRate:      r.DutyRate,
		VATRate:       r.VATRate,
		ShippingCost:  r.ShippingCost,
		InsuranceCost: r.InsuranceCost,
		FBAFeeAmount:  r.FBAFeeAmount,
		Quantity:      r.Quantity,
		Currency:      toCurrency(r.Currency),
	}
}

// OptimizationRequest is the body of POST /api/v1/optimizations.
type OptimizationRequest struct {
	ProductIDs []string `json:"productIds" validate:"required,min=1,max=100,dive,required,max=64"`
}

// OptimizationResponse lists the ranked recommendations.
type OptimizationResponse struct {
	Recommendations []optimization.Recommendation `json:"recommendations"`
	Count           int                           `json:"count"`
}

// ScenarioRequest is one scenario of a comparison.
type ScenarioRequest struct {
	Name          string            `json:"name" validate:"max=100"`
	Dimensions    DimensionsRequest `json:"dimensions" validate:"required"`
	Weight        WeightRequest     `json:"weight" validate:"required"`
	Category      string            `json:"category" validate:"max=100"`
	ProductValue  float64           `json:"productValue"`
	DutyRate      float64           `json:"dutyRate"`
	VATRate       float64           `json:"vatRate"`
	ShippingCost  float64           `json:"shippingCost"`
	InsuranceCost float64           `json:"insuranceCost"`
	SellingPrice  float64           `json:"sellingPrice"`
	Quantity      int               `json:"quantity"`
	Currency      string            `json:"currency" validate:"omitempty,currency"`
}

// ToInput converts the request to the scenario builder input.
func (r ScenarioRequest) ToInput() scenario.Input {
	return scenario.Input{
		Name:          r.Name,
		Dimensions:    toDimensions(r.Dimensions),
		Weight:        toWeight(r.Weight),
		Category:      r.Category,
		ProductValue:  r.ProductValue,
		DutyRate:      r.DutyRate,
		VATRate:       r.VATRate,
		ShippingCost:  r.ShippingCost,
		InsuranceCost: r.InsuranceCost,
		SellingPrice:  r.SellingPrice,
		Quantity:      r.Quantity,
		Currency:      toCurrency(r.Currency),
	}
}

// CompareScenariosRequest is the body of POST /api/v1/scenarios/compare.
type CompareScenariosRequest struct {
	Scenarios []ScenarioRequest `json:"scenarios" validate:"required,min=1,max=20,dive"`
}

// CompareScenariosResponse holds the built scenarios, in request order, and
// their comparison.
type CompareScenariosResponse struct {
	Scenarios  []scenario.Result   `json:"scenarios"`
	Comparison scenario.Comparison `json:"comparison"`
}

// BracketInfo is a fulfillment fee band. MaxWeightLb is omitted for the
// open-ended last band.
type BracketInfo struct {
	MaxWeightLb *float64        `json:"maxWeightLb,omitempty"`
	Fee         decimal.Decimal `json:"fee"`
}

// SizeTierInfo describes one size tier with its fee brackets.
type SizeTierInfo struct {
	valueobject.TierLimits
	StorageRatePerCubicFoot decimal.Decimal `json:"storageRatePerCubicFoot"`
	Brackets                []BracketInfo   `json:"brackets"`
}

// SizeTiersResponse is the body of GET /api/v1/size-tiers.
type SizeTiersResponse struct {
	Tiers      []SizeTierInfo                      `json:"tiers"`
	Categories map[string]feeschedule.CategoryFees `json:"categories"`
	Default    feeschedule.CategoryFees            `json:"defaultCategory"`
}

// NewSizeTiersResponse describes the classification thresholds and every
// table of a fee schedule.
//
// Parameters:
//   - schedule: the fee schedule to describe
//
// Returns:
//   - SizeTiersResponse: the description
//   - error: *apperr.UnmappedFeeTableEntryError if a tier has no storage rate
func NewSizeTiersResponse(schedule *feeschedule.Schedule) (SizeTiersResponse, error) {
	limits := valueobject.SizeTierLimits()
	resp := SizeTiersResponse{
		Tiers:      make([]SizeTierInfo, 0, len(limits)),
		Categories: make(map[string]feeschedule.CategoryFees),
		Default:    schedule.DefaultCategory(),
	}

	for _, l := range limits {
		rate, err := schedule.StorageRate(l.Tier)
		if err != nil {
			return SizeTiersResponse{}, err
		}
		brackets := schedule.Brackets(l.Tier)
		info := SizeTierInfo{
			TierLimits:              l,
			StorageRatePerCubicFoot: rate,
			Brackets:                make([]BracketInfo, 0, len(brackets)),
		}
		for _, b := range brackets {
			bi := BracketInfo{Fee: b.Fee}
			if !math.IsInf(b.MaxWeightLb, 1) {
				limit := b.MaxWeightLb
				bi.MaxWeightLb = &limit
			}
			info.Brackets = append(info.Brackets, bi)
		}
		resp.Tiers = append(resp.Tiers, info)
	}

	for _, name := range schedule.CategoryNames() {
		fees, _ := schedule.Category(name)
		resp.Categories[name] = fees
	}
	return resp, nil
}

func toDimensions(r DimensionsRequest) valueobject.Dimensions {
	return valueobject.NewDimensions(r.Length, r.Width, r.Height, valueobject.LengthUnit(r.Unit))
}

func toWeight(r WeightRequest) valueobject.Weight {
	return valueobject.NewWeight(r.Value, valueobject.WeightUnit(r.Unit))
}

// toCurrency canonicalizes a validated currency code. An empty code stays
// empty so the calculator applies its configured default.
func toCurrency(code string) valueobject.Currency {
	c, err := valueobject.ParseCurrency(code)
	if err != nil || strings.TrimSpace(code) == "" {
		return ""
	}
	return c
}
