// Package handlers - Mock interfaces for handler unit tests
package handlers

import (
	"context"

	"github.com/vantora/replenish/internal/models"
	"github.com/vantora/replenish/internal/services"
	"github.com/shopspring/decimal"
)

// mockHealthChecker is a mock implementation of database.HealthChecker.
type mockHealthChecker struct {
	HealthFunc func(ctx context.Context) error
}

func (m *mockHealthChecker) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// mockReportQuerier is a mock implementation of database.ReportQuerier.
type mockReportQuerier struct {
	CreateReportFunc       func(ctx context.Context, rep *models.Report) error
	GetReportFunc          func(ctx context.Context, id string) (*models.Report, error)
	UpdatePhase1ResultFunc func(ctx context.Context, rep *models.Report) error
	UpdateStatusFunc       func(ctx context.Context, id string, status models.Status) error
	ReplaceReportItemsFunc func(ctx context.Context, reportID string, items []models.ReportItem) error
	GetReportItemsFunc     func(ctx context.Context, reportID string) ([]models.ReportItem, error)
	ListReportsFunc        func(ctx context.Context, user string) ([]models.Report, error)
}

func (m *mockReportQuerier) CreateReport(ctx context.Context, rep *models.Report) error {
	if m.CreateReportFunc != nil {
		return m.CreateReportFunc(ctx, rep)
	}
	return nil
}

func (m *mockReportQuerier) GetReport(ctx context.Context, id string) (*models.Report, error) {
	if m.GetReportFunc != nil {
		return m.GetReportFunc(ctx, id)
	}
	return &models.Report{ID: id}, nil
}

func (m *mockReportQuerier) UpdatePhase1Result(ctx context.Context, rep *models.Report) error {
	if m.UpdatePhase1ResultFunc != nil {
		return m.UpdatePhase1ResultFunc(ctx, rep)
	}
	return nil
}

func (m *mockReportQuerier) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockReportQuerier) ReplaceReportItems(ctx context.Context, reportID string, items []models.ReportItem) error {
	if m.ReplaceReportItemsFunc != nil {
		return m.ReplaceReportItemsFunc(ctx, reportID, items)
	}
	return nil
}

func (m *mockReportQuerier) GetReportItems(ctx context.Context, reportID string) ([]models.ReportItem, error) {
	if m.GetReportItemsFunc != nil {
		return m.GetReportItemsFunc(ctx, reportID)
	}
	return nil, nil
}

func (m *mockReportQuerier) ListReports(ctx context.Context, user string) ([]models.Report, error) {
	if m.ListReportsFunc != nil {
		return m.ListReportsFunc(ctx, user)
	}
	return nil, nil
}

// mockRunServicer is a mock implementation of services.RunServicer.
type mockRunServicer struct {
	Phase1Func func(ctx context.Context, reportID string, maxInvestmentPeriod int) error
	Phase2Func func(ctx context.Context, reportID string, budget decimal.Decimal) error
	CommitFunc func(ctx context.Context, reportID string) error
}

func (m *mockRunServicer) Phase1(ctx context.Context, reportID string, maxInvestmentPeriod int) error {
	if m.Phase1Func != nil {
		return m.Phase1Func(ctx, reportID, maxInvestmentPeriod)
	}
	return nil
}

func (m *mockRunServicer) Phase2(ctx context.Context, reportID string, budget decimal.Decimal) error {
	if m.Phase2Func != nil {
		return m.Phase2Func(ctx, reportID, budget)
	}
	return nil
}

func (m *mockRunServicer) Commit(ctx context.Context, reportID string) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, reportID)
	}
	return nil
}

// mockForecastServicer is a mock implementation of services.ForecastServicer.
type mockForecastServicer struct {
	RefreshADSFunc func(ctx context.Context, start, end, now int64) (services.RefreshResult, error)
}

func (m *mockForecastServicer) RefreshADS(ctx context.Context, start, end, now int64) (services.RefreshResult, error) {
	if m.RefreshADSFunc != nil {
		return m.RefreshADSFunc(ctx, start, end, now)
	}
	return services.RefreshResult{}, nil
}
