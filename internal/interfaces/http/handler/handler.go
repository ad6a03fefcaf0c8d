// Package handler exposes the calculation service over HTTP.
// Every response is wrapped in dto.APIResponse.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/hapkiduki/landedcost/internal/application/dto"
	"github.com/hapkiduki/landedcost/internal/application/port"
	"github.com/hapkiduki/landedcost/internal/application/service"
	"github.com/hapkiduki/landedcost/internal/domain/apperr"
	"github.com/hapkiduki/landedcost/internal/domain/fba"
	"github.com/hapkiduki/landedcost/internal/domain/landedcost"
	"github.com/hapkiduki/landedcost/internal/interfaces/http/middleware"
)

// Calculator is the subset of the calculation service the handlers call.
type Calculator interface {
	CalculateFbaFees(ctx context.Context, req dto.FbaFeeRequest) (fba.FeeBreakdown, error)
	CalculateLandedCost(ctx context.Context, req dto.LandedCostRequest) (landedcost.Breakdown, error)
	GenerateRecommendations(ctx context.Context, req dto.OptimizationRequest) (dto.OptimizationResponse, error)
	CompareScenarios(ctx context.Context, req dto.CompareScenariosRequest) (dto.CompareScenariosResponse, error)
	SizeTiers(ctx context.Context) (dto.SizeTiersResponse, error)
}

// HealthCheck checks one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// Handler serves the calculation endpoints.
type Handler struct {
	calc      Calculator
	log       port.Logger
	version   string
	startedAt time.Time
	checks    map[string]HealthCheck
}

// Option configures a Handler.
type Option func(*Handler)

// WithVersion sets the version reported in response metadata and /health.
func WithVersion(v string) Option {
	return func(h *Handler) {
		h.version = v
	}
}

// WithHealthCheck registers a dependency check run by /ready.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) {
		h.checks[name] = check
	}
}

// New creates a Handler.
//
// Parameters:
//   - calc: the calculation service
//   - log: logger for request failures
//   - opts: optional settings
//
// Returns:
//   - *Handler: the handler
func New(calc Calculator, log port.Logger, opts ...Option) *Handler {
	if log == nil {
		log = port.NopLogger()
	}
	h := &Handler{
		calc:      calc,
		log:       log,
		version:   "dev",
		startedAt: time.Now(),
		checks:    make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) meta(r *http.Request) dto.ResponseMeta {
	return dto.ResponseMeta{
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
	}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, resp any) {
	render.Status(r, status)
	render.JSON(w, r, resp)
}

func (h *Handler) ok(w http.ResponseWriter, r *http.Request, data any) {
	h.respond(w, r, http.StatusOK, dto.NewSuccessResponse(data).WithMeta(h.meta(r)))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.respond(w, r, status, dto.NewErrorResponse[any](code, message).WithMeta(h.meta(r)))
}

// decode reads and validates a JSON request body. It writes the error
// response itself and reports whether the handler may continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := render.DecodeJSON(r.Body, req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, http.StatusRequestEntityTooLarge, dto.CodePayloadTooLarge, "Request body is too large")
			return false
		}
		h.fail(w, r, http.StatusBadRequest, dto.CodeInvalidRequest, "Request body must be valid JSON")
		return false
	}
	if errs := dto.Validate(req); len(errs) > 0 {
		h.respond(w, r, http.StatusBadRequest, dto.NewValidationErrorResponse[any](errs).WithMeta(h.meta(r)))
		return false
	}
	return true
}

// serviceError maps a service error to its HTTP response. Internal errors
// were logged with full context by the service; only a generic message
// leaves the process.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperr.IsValidation(err):
		h.respond(w, r, http.StatusBadRequest,
			dto.NewFieldErrorResponse[any](dto.CodeInvalidInput, apperr.Field(err), err.Error()).WithMeta(h.meta(r)))
	case errors.Is(err, service.ErrOptimizationUnavailable):
		h.fail(w, r, http.StatusServiceUnavailable, dto.CodeUnavailable, "Recommendations are not available: no product data source is configured")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.log.WithContext(r.Context()).Warn("request aborted", "path", r.URL.Path, "error", err)
		h.fail(w, r, http.StatusGatewayTimeout, dto.CodeTimeout, "The request took too long to complete")
	default:
		if !errors.Is(err, service.ErrInternal) {
			h.log.WithContext(r.Context()).Error("unhandled service error", "path", r.URL.Path, "error", err)
		}
		h.fail(w, r, http.StatusInternalServerError, dto.CodeInternalError, "An unexpected error occurred")
	}
}
