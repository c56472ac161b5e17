package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/repository"
	customError "github.com/segyhp/fundease/pkg/errors"
)

// ReportService recomputes aggregates from the ledger on every call.
type ReportService struct {
	reports repository.ReportRepository
	members repository.MemberRepository
	clock   func() time.Time
}

func NewReportService(reports repository.ReportRepository, members repository.MemberRepository, clock func() time.Time) *ReportService {
	if clock == nil {
		clock = time.Now
	}
	return &ReportService{
		reports: reports,
		members: members,
		clock:   clock,
	}
}

// ComputeFundBalance is confirmed contributions minus approved withdrawals
// plus interest on loans that were released.
func (s *ReportService) ComputeFundBalance(ctx context.Context) (decimal.Decimal, error) {
	balance, err := s.FundBalance(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.Total(), nil
}

// FundBalance returns the components of the fund balance.
func (s *ReportService) FundBalance(ctx context.Context) (*domain.FundBalance, error) {
	balance, err := s.reports.FundBalance(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return balance, nil
}

func (s *ReportService) ComputeLoanStats(ctx context.Context) (*domain.LoanStats, error) {
	stats, err := s.reports.LoanStats(ctx, s.clock().UTC())
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return stats, nil
}

func (s *ReportService) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	summary, err := s.reports.FinancialSummary(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return summary, nil
}

// MemberSummary is the dashboard of a single member.
func (s *ReportService) MemberSummary(ctx context.Context, userID uuid.UUID) (*domain.MemberSummary, error) {
	if _, err := s.members.GetByUserID(ctx, userID); err != nil {
		return nil, lookupError(err, "Member", userID)
	}

	summary, err := s.reports.MemberSummary(ctx, userID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return summary, nil
}
