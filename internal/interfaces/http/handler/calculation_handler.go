package handler

import (
	"net/http"

	"github.com/hapkiduki/landedcost/internal/application/dto"
)

// CalculateFbaFees handles POST /api/v1/fees/fba.
func (h *Handler) CalculateFbaFees(w http.ResponseWriter, r *http.Request) {
	var req dto.FbaFeeRequest
	if !h.decode(w, r, &req) {
		return
	}
	fees, err := h.calc.CalculateFbaFees(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, fees)
}

// CalculateLandedCost handles POST /api/v1/landed-cost.
func (h *Handler) CalculateLandedCost(w http.ResponseWriter, r *http.Request) {
	var req dto.LandedCostRequest
	if !h.decode(w, r, &req) {
		return
	}
	breakdown, err := h.calc.CalculateLandedCost(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, breakdown)
}

// GenerateRecommendations handles POST /api/v1/optimizations.
func (h *Handler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizationRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.calc.GenerateRecommendations(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, resp)
}

// CompareScenarios handles POST /api/v1/scenarios/compare.
func (h *Handler) CompareScenarios(w http.ResponseWriter, r *http.Request) {
	var req dto.CompareScenariosRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.calc.CompareScenarios(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, resp)
}

// SizeTiers handles GET /api/v1/size-tiers.
func (h *Handler) SizeTiers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.calc.SizeTiers(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, resp)
}
