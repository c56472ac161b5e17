package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fundease/internal/domain"
)

// Loan status buckets shared by the aggregate queries.
const (
	activeLoanStatuses  = `('approved', 'disbursed', 'active')`
	earningLoanStatuses = `('approved', 'disbursed', 'active', 'completed')`
)

type reportRepository struct {
	db sqlx.QueryerContext
}

func NewReportRepository(db sqlx.QueryerContext) ReportRepository {
	return &reportRepository{db: db}
}

// FundBalance sums each source in its own subquery so rows from one table
// never multiply the sums of another.
func (r *reportRepository) FundBalance(ctx context.Context) (*domain.FundBalance, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM contributions WHERE status = 'confirmed') AS confirmed_contributions,
			(SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE status = 'approved') AS approved_withdrawals,
			(SELECT COALESCE(SUM(amount * interest_rate), 0) FROM loans WHERE status IN ` + earningLoanStatuses + `) AS interest_earned
	`

	var balance domain.FundBalance
	if err := sqlx.GetContext(ctx, r.db, &balance, query); err != nil {
		return nil, err
	}

	return &balance, nil
}

func (r *reportRepository) LoanStats(ctx context.Context, now time.Time) (*domain.LoanStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_loans,
			COUNT(*) FILTER (WHERE status IN ` + activeLoanStatuses + `) AS active_loans,
			COALESCE(SUM(amount), 0) AS total_loan_amount,
			COUNT(*) FILTER (WHERE remaining_balance > 0
				AND $1::timestamptz > created_at + make_interval(months => term_months)) AS overdue_loans
		FROM loans
	`

	var stats domain.LoanStats
	if err := sqlx.GetContext(ctx, r.db, &stats, query, now); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *reportRepository) FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM contributions WHERE status = 'confirmed') AS total_contributions,
			(SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE status = 'approved') AS total_withdrawals,
			(SELECT COALESCE(SUM(amount), 0) FROM loans WHERE status IN ` + activeLoanStatuses + `) AS total_loans_disbursed,
			(SELECT COALESCE(SUM(amount), 0) FROM loan_repayments WHERE status = 'confirmed') AS total_repayments,
			(SELECT COALESCE(SUM(amount * interest_rate), 0) FROM loans WHERE status IN ` + earningLoanStatuses + `) AS total_interest,
			(SELECT COUNT(*) FROM withdrawals WHERE status = 'pending') AS pending_withdrawal_count,
			(SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE status = 'pending') AS pending_withdrawal_amount
	`

	var summary domain.FinancialSummary
	if err := sqlx.GetContext(ctx, r.db, &summary, query); err != nil {
		return nil, err
	}

	summary.FundBalance = domain.FundBalance{
		ConfirmedContributions: summary.TotalContributions,
		ApprovedWithdrawals:    summary.TotalWithdrawals,
		InterestEarned:         summary.TotalInterest,
	}.Total()

	return &summary, nil
}

func (r *reportRepository) MemberSummary(ctx context.Context, userID uuid.UUID) (*domain.MemberSummary, error) {
	query := `
		SELECT
			c.total_confirmed, c.total_pending, c.total_rejected,
			l.total_loans, l.active_loan_amount, l.outstanding_balance, l.completed_loan_amount
		FROM (
			SELECT
				COALESCE(SUM(amount) FILTER (WHERE status = 'confirmed'), 0) AS total_confirmed,
				COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0) AS total_pending,
				COALESCE(SUM(amount) FILTER (WHERE status = 'rejected'), 0) AS total_rejected
			FROM contributions
			WHERE user_id = $1
		) c CROSS JOIN (
			SELECT
				COUNT(*) AS total_loans,
				COALESCE(SUM(amount) FILTER (WHERE status IN ` + activeLoanStatuses + `), 0) AS active_loan_amount,
				COALESCE(SUM(remaining_balance) FILTER (WHERE status IN ` + activeLoanStatuses + `), 0) AS outstanding_balance,
				COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0) AS completed_loan_amount
			FROM loans
			WHERE user_id = $1
		) l
	`

	var summary domain.MemberSummary
	if err := sqlx.GetContext(ctx, r.db, &summary, query, userID); err != nil {
		return nil, err
	}

	return &summary, nil
}
