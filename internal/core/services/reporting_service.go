package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
)

// defaultSummaryMonths is how far back the cash flow report reaches when the
// request does not bound the range.
const defaultSummaryMonths = 6

// ReportingService produces read-only cash flow summaries.
type ReportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates the reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) *ReportingService {
	return &ReportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// GetCashFlowSummary aggregates per-month income and expense plus the current
// total across active accounts.
func (s *ReportingService) GetCashFlowSummary(ctx context.Context, userID string, params dto.SummaryParams) (*dto.SummaryResponse, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, -defaultSummaryMonths, 0)
	to := now

	if params.From != nil {
		parsed, err := time.Parse(time.RFC3339, *params.From)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid 'from' timestamp", apperrors.ErrValidation)
		}
		from = parsed
	}
	if params.To != nil {
		parsed, err := time.Parse(time.RFC3339, *params.To)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid 'to' timestamp", apperrors.ErrValidation)
		}
		to = parsed
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: 'from' must not be after 'to'", apperrors.ErrValidation)
	}

	months, err := s.reportingRepo.MonthlyCashFlow(ctx, userID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate monthly cash flow")
		return nil, fmt.Errorf("failed to build cash flow summary: %w", err)
	}

	total, err := s.reportingRepo.TotalActiveBalance(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum active balances")
		return nil, fmt.Errorf("failed to build cash flow summary: %w", err)
	}

	return &dto.SummaryResponse{
		Months:       months,
		TotalBalance: total,
		Currency:     domain.DefaultCurrency,
	}, nil
}
