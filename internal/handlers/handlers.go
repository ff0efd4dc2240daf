// Package handlers provides HTTP request handlers
package handlers

import (
	"errors"
	"time"

	"github.com/vantora/replenish/internal/database"
	"github.com/vantora/replenish/internal/models"
	"github.com/vantora/replenish/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	healthChecker database.HealthChecker
	reports       database.ReportQuerier
	runService    services.RunServicer
	forecastSvc   services.ForecastServicer
}

// New creates a new handler instance with interfaces.
func New(healthChecker database.HealthChecker, reports database.ReportQuerier, runService services.RunServicer, forecastSvc services.ForecastServicer) *Handler {
	return &Handler{
		healthChecker: healthChecker,
		reports:       reports,
		runService:    runService,
		forecastSvc:   forecastSvc,
	}
}

// Health handles health check requests.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.healthChecker.Health(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "replenish-api",
	})
}

// Version handles version requests.
func (h *Handler) Version(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": "0.1.0",
		"service": "replenish-api",
	})
}

// createReportRequest is the wire shape for CreateReport.
type createReportRequest struct {
	User         string `json:"user"`
	Warehouse    int    `json:"warehouse"`
	CoverageDays int    `json:"coverage_days"`
	CreditTerms  int    `json:"credit_terms"`
}

// CreateReport handles POST /reports: creates a new DRAFT Report.
func (h *Handler) CreateReport(c *fiber.Ctx) error {
	var req createReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.User == "" || req.Warehouse == 0 || req.CoverageDays <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user, warehouse and coverage_days are required"})
	}

	rep := &models.Report{
		ID:           uuid.NewString(),
		User:         req.User,
		Warehouse:    req.Warehouse,
		CoverageDays: req.CoverageDays,
		CreditTerms:  req.CreditTerms,
		Status:       models.StatusDraft,
		MinBudget:    decimal.Zero,
		MaxBudget:    decimal.Zero,
		CreatedAt:    time.Now(),
	}

	if err := h.reports.CreateReport(c.Context(), rep); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create report", "details": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(rep)
}

// GetReport handles GET /reports/:id.
func (h *Handler) GetReport(c *fiber.Ctx) error {
	id := c.Params("id")
	rep, err := h.reports.GetReport(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "report not found", "details": err.Error()})
	}
	return c.JSON(rep)
}

// phase1Request is the wire shape for Phase1.
type phase1Request struct {
	MaxInvestmentPeriod int `json:"max_investment_period"`
}

// Phase1 handles POST /reports/:id/phase1.
func (h *Handler) Phase1(c *fiber.Ctx) error {
	id := c.Params("id")

	var req phase1Request
	if err := c.BodyParser(&req); err != nil || req.MaxInvestmentPeriod <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "max_investment_period is required and must be positive"})
	}

	if err := h.runService.Phase1(c.Context(), id, req.MaxInvestmentPeriod); err != nil {
		return domainErrorResponse(c, err)
	}

	rep, err := h.reports.GetReport(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "phase1 succeeded but failed to reload report", "details": err.Error()})
	}
	return c.JSON(rep)
}

// phase2Request is the wire shape for Phase2.
type phase2Request struct {
	Budget string `json:"budget"`
}

// Phase2 handles POST /reports/:id/phase2.
func (h *Handler) Phase2(c *fiber.Ctx) error {
	id := c.Params("id")

	var req phase2Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	budget, err := decimal.NewFromString(req.Budget)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "budget must be a decimal string"})
	}

	if err := h.runService.Phase2(c.Context(), id, budget); err != nil {
		return domainErrorResponse(c, err)
	}

	items, err := h.reports.GetReportItems(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "phase2 succeeded but failed to reload items", "details": err.Error()})
	}
	return c.JSON(fiber.Map{"report_id": id, "items": items})
}

// Commit handles POST /reports/:id/commit.
func (h *Handler) Commit(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.runService.Commit(c.Context(), id); err != nil {
		return domainErrorResponse(c, err)
	}

	rep, err := h.reports.GetReport(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "commit succeeded but failed to reload report", "details": err.Error()})
	}
	return c.JSON(rep)
}

// refreshADSRequest is the wire shape for RefreshADS.
type refreshADSRequest struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
	Now   int64 `json:"now"`
}

// RefreshADS handles POST /ads/refresh: runs the Sales Aggregator and
// Forecaster over posted sales in [start, end] and upserts the resulting
// ADS snapshots.
func (h *Handler) RefreshADS(c *fiber.Ctx) error {
	var req refreshADSRequest
	if err := c.BodyParser(&req); err != nil || req.Start <= 0 || req.End <= req.Start || req.Now <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start, end (> start) and now are required"})
	}

	result, err := h.forecastSvc.RefreshADS(c.Context(), req.Start, req.End, req.Now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "ADS refresh failed", "details": err.Error()})
	}

	return c.JSON(result)
}

// ListReports handles GET /reports?user=...
func (h *Handler) ListReports(c *fiber.Ctx) error {
	user := c.Query("user")
	reports, err := h.reports.ListReports(c.Context(), user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list reports", "details": err.Error()})
	}
	return c.JSON(fiber.Map{"reports": reports, "count": len(reports)})
}

// domainErrorResponse maps domain error Kinds onto HTTP status codes.
func domainErrorResponse(c *fiber.Ctx, err error) error {
	var de *models.DomainError
	if !errors.As(err, &de) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	status := fiber.StatusInternalServerError
	switch de.Kind {
	case models.KindInputValidation, models.KindBudgetOutOfRange:
		status = fiber.StatusBadRequest
	case models.KindInfeasible, models.KindSolverTimeout:
		status = fiber.StatusUnprocessableEntity
	case models.KindStateConflict:
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(fiber.Map{
		"error": de.Message,
		"kind":  string(de.Kind),
	})
}

