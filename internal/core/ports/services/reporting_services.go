package services

import (
	"context"

	"github.com/pesoplan/pesoplan_backend/internal/dto"
)

// ReportingSvcFacade produces read-only cash flow summaries.
type ReportingSvcFacade interface {
	GetCashFlowSummary(ctx context.Context, userID string, params dto.SummaryParams) (*dto.SummaryResponse, error)
}
