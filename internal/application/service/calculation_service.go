// Package service orchestrates the calculation core for the delivery layers.
// It owns logging of internal failures; validation of request shape belongs
// to the caller.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hapkiduki/landedcost/internal/application/dto"
	"github.com/hapkiduki/landedcost/internal/application/port"
	"github.com/hapkiduki/landedcost/internal/domain/apperr"
	"github.com/hapkiduki/landedcost/internal/domain/fba"
	"github.com/hapkiduki/landedcost/internal/domain/landedcost"
	"github.com/hapkiduki/landedcost/internal/domain/optimization"
	"github.com/hapkiduki/landedcost/internal/domain/scenario"
)

// ErrInternal is returned in place of errors that must not reach a caller
// verbatim (fee table gaps, collaborator failures). The original error is
// logged.
var ErrInternal = errors.New("internal calculation error")

// CalculationService exposes every calculation to the HTTP and CLI layers.
type CalculationService struct {
	fees       *fba.Calculator
	landed     *landedcost.Calculator
	engine     *optimization.Engine
	builder    *scenario.Builder
	comparator *scenario.Comparator
	log        port.Logger
}

// Dependencies groups the collaborators of a CalculationService.
type Dependencies struct {
	Fees       *fba.Calculator
	LandedCost *landedcost.Calculator
	Engine     *optimization.Engine
	Comparator *scenario.Comparator
	Logger     port.Logger
}

// NewCalculationService creates the service. Nil calculators select their
// defaults; Engine may be nil when no product data source is configured,
// in which case recommendations are unavailable.
//
// Parameters:
//   - deps: collaborators
//
// Returns:
//   - *CalculationService: the service
func NewCalculationService(deps Dependencies) *CalculationService {
	if deps.Fees == nil {
		deps.Fees = fba.NewCalculator(nil)
	}
	if deps.LandedCost == nil {
		deps.LandedCost = landedcost.NewCalculator()
	}
	if deps.Comparator == nil {
		deps.Comparator = scenario.DefaultComparator()
	}
	if deps.Logger == nil {
		deps.Logger = port.NopLogger()
	}
	return &CalculationService{
		fees:       deps.Fees,
		landed:     deps.LandedCost,
		engine:     deps.Engine,
		builder:    scenario.NewBuilder(deps.Fees, deps.LandedCost),
		comparator: deps.Comparator,
		log:        deps.Logger,
	}
}

// ErrOptimizationUnavailable is returned when no product data source is wired.
var ErrOptimizationUnavailable = errors.New("optimization requires a product data source")

// CalculateFbaFees computes the per-unit FBA fee breakdown.
func (s *CalculationService) CalculateFbaFees(ctx context.Context, req dto.FbaFeeRequest) (fba.FeeBreakdown, error) {
	fees, err := s.fees.Calculate(req.ToInput())
	if err != nil {
		return fba.FeeBreakdown{}, s.classify(ctx, "fba fee calculation failed", err)
	}
	s.log.WithContext(ctx).Debug("fba fees calculated",
		"size_tier", fees.SizeTier.String(), "total", fees.Total.String())
	return fees, nil
}

// CalculateLandedCost computes the landed-cost cascade.
func (s *CalculationService) CalculateLandedCost(ctx context.Context, req dto.LandedCostRequest) (landedcost.Breakdown, error) {
	b, err := s.landed.Calculate(req.ToInput())
	if err != nil {
		return landedcost.Breakdown{}, s.classify(ctx, "landed cost calculation failed", err)
	}
	s.log.WithContext(ctx).Debug("landed cost calculated",
		"duty_base", string(s.landed.DutyBase()), "total", b.TotalLandedCost.String())
	return b, nil
}

// GenerateRecommendations ranks duty-saving recommendations for the products.
func (s *CalculationService) GenerateRecommendations(ctx context.Context, req dto.OptimizationRequest) (dto.OptimizationResponse, error) {
	if s.engine == nil {
		return dto.OptimizationResponse{}, ErrOptimizationUnavailable
	}

	recs, err := s.engine.GenerateRecommendations(ctx, req.ProductIDs)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return dto.OptimizationResponse{}, err
		}
		return dto.OptimizationResponse{}, s.classify(ctx, "recommendation generation failed", err)
	}

	s.log.WithContext(ctx).Info("recommendations generated",
		"products", len(req.ProductIDs), "recommendations", len(recs))
	return dto.OptimizationResponse{Recommendations: recs, Count: len(recs)}, nil
}

// CompareScenarios builds every scenario and compares them. Scenarios are
// returned in request order, which is the numbering the advice uses.
func (s *CalculationService) CompareScenarios(ctx context.Context, req dto.CompareScenariosRequest) (dto.CompareScenariosResponse, error) {
	results := make([]scenario.Result, 0, len(req.Scenarios))
	for i, sr := range req.Scenarios {
		r, err := s.builder.Build(sr.ToInput())
		if err != nil {
			return dto.CompareScenariosResponse{}, s.classify(ctx, "scenario build failed",
				scenarioError(i, err))
		}
		results = append(results, r)
	}

	return dto.CompareScenariosResponse{
		Scenarios:  results,
		Comparison: s.comparator.Compare(results),
	}, nil
}

// SizeTiers describes the classification thresholds and the fee schedule.
func (s *CalculationService) SizeTiers(ctx context.Context) (dto.SizeTiersResponse, error) {
	resp, err := dto.NewSizeTiersResponse(s.fees.Schedule())
	if err != nil {
		return dto.SizeTiersResponse{}, s.classify(ctx, "fee schedule description failed", err)
	}
	return resp, nil
}

// classify passes validation errors through and replaces everything else
// with ErrInternal after logging it with full context.
func (s *CalculationService) classify(ctx context.Context, msg string, err error) error {
	if apperr.IsValidation(err) {
		return err
	}

	fields := []interface{}{"error", err}
	var unmapped *apperr.UnmappedFeeTableEntryError
	if errors.As(err, &unmapped) {
		fields = append(fields, "table", unmapped.Table, "tier", unmapped.Tier, "weight_lb", unmapped.WeightLb)
	}
	s.log.WithContext(ctx).Error(msg, fields...)
	return fmt.Errorf("%w: %s", ErrInternal, msg)
}

// scenarioError prefixes the offending field of a validation error with the
// scenario's position so the caller can tell scenarios apart.
func scenarioError(i int, err error) error {
	prefix := fmt.Sprintf("scenarios[%d].", i)

	var ie *apperr.InvalidInputError
	if errors.As(err, &ie) {
		return apperr.NewInvalidInput(prefix+ie.Field, "%s", ie.Message)
	}
	var me *apperr.InvalidMeasurementError
	if errors.As(err, &me) {
		return apperr.NewInvalidMeasurement(prefix+me.Field, "%s", me.Message)
	}
	return err
}
