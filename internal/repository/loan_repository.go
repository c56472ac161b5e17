package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fundease/internal/domain"
)

const loanColumns = `l.id, l.member_id, l.user_id, l.amount, l.reason, l.term_months, l.interest_rate,
		l.monthly_payment, l.remaining_balance, l.status, l.approved_by, l.approved_at, l.created_at, l.updated_at`

// dueDateSQL is the end of a loan's term in SQL.
const dueDateSQL = `(l.created_at + make_interval(months => l.term_months))`

var loanSortColumns = map[string]string{
	domain.LoanSortCreatedAt:  "l.created_at",
	domain.LoanSortAmount:     "l.amount",
	domain.LoanSortStatus:     "l.status",
	domain.LoanSortMemberName: "member_name",
}

type loanRepository struct {
	db sqlx.ExtContext
}

func NewLoanRepository(db sqlx.ExtContext) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, member_id, user_id, amount, reason, term_months, interest_rate,
			monthly_payment, remaining_balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.MemberID,
		loan.UserID,
		loan.Amount,
		loan.Reason,
		loan.TermMonths,
		loan.InterestRate,
		loan.MonthlyPayment,
		loan.RemainingBalance,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return translateError(err)
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans l WHERE l.id = $1`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans l WHERE l.id = $1 FOR UPDATE`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetDetail(ctx context.Context, id uuid.UUID) (*domain.LoanDetail, error) {
	query := `
		SELECT ` + loanColumns + `,
			COALESCE(m.first_name || ' ' || m.last_name, '') AS member_name,
			COALESCE(lp.total_paid, 0) AS total_paid
		FROM loans l
		LEFT JOIN members m ON m.id = l.member_id
		LEFT JOIN (
			SELECT loan_id, SUM(amount) AS total_paid
			FROM loan_repayments
			WHERE status = 'confirmed'
			GROUP BY loan_id
		) lp ON lp.loan_id = l.id
		WHERE l.id = $1
	`

	var detail domain.LoanDetail
	if err := sqlx.GetContext(ctx, r.db, &detail, query, id); err != nil {
		return nil, err
	}

	return &detail, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET remaining_balance = $2, status = $3, approved_by = $4, approved_at = $5, updated_at = $6
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.RemainingBalance,
		loan.Status,
		loan.ApprovedBy,
		loan.ApprovedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *loanRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans l WHERE l.user_id = $1 ORDER BY l.created_at DESC`

	loans := []*domain.Loan{}
	if err := sqlx.SelectContext(ctx, r.db, &loans, query, userID); err != nil {
		return nil, err
	}

	return loans, nil
}

// loanFilterSQL renders the WHERE clause of filter with placeholders numbered
// from firstArg.
func loanFilterSQL(filter domain.LoanFilter, firstArg int) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", firstArg+len(args)-1)
	}

	if filter.Status != "" {
		where = append(where, "l.status = "+next(filter.Status))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		where = append(where, fmt.Sprintf("(l.id::text = %s OR (m.first_name || ' ' || m.last_name) ILIKE %s)",
			next(search), next("%"+search+"%")))
	}

	if len(where) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(where, " AND "), args
}

func (r *loanRepository) List(ctx context.Context, filter domain.LoanFilter, now time.Time) ([]*domain.LoanListItem, int, error) {
	filter.Normalize()

	countWhere, countArgs := loanFilterSQL(filter, 1)
	countQuery := `
		SELECT COUNT(*)
		FROM loans l
		LEFT JOIN members m ON m.id = l.member_id
		` + countWhere

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	// $1 is the reference time for days_overdue
	where, filterArgs := loanFilterSQL(filter, 2)
	args := append([]interface{}{now}, filterArgs...)
	args = append(args, filter.Limit, filter.Offset())

	query := `
		SELECT ` + loanColumns + `,
			COALESCE(m.first_name || ' ' || m.last_name, '') AS member_name,
			COALESCE(lp.total_paid, 0) AS total_paid,
			CASE WHEN l.remaining_balance > 0 AND $1::timestamptz > ` + dueDateSQL + `
				THEN EXTRACT(DAY FROM ($1::timestamptz - ` + dueDateSQL + `))::int
				ELSE 0 END AS days_overdue
		FROM loans l
		LEFT JOIN members m ON m.id = l.member_id
		LEFT JOIN (
			SELECT loan_id, SUM(amount) AS total_paid
			FROM loan_repayments
			WHERE status = 'confirmed'
			GROUP BY loan_id
		) lp ON lp.loan_id = l.id
		` + where + `
		ORDER BY ` + loanSortColumns[filter.SortBy] + ` ` + filter.SortDir + `, l.id
		LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	items := []*domain.LoanListItem{}
	if err := sqlx.SelectContext(ctx, r.db, &items, query, args...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *loanRepository) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans l
		WHERE l.remaining_balance > 0
			AND l.status IN ('approved', 'disbursed', 'active')
			AND $1::timestamptz > ` + dueDateSQL + `
		ORDER BY ` + dueDateSQL

	loans := []*domain.Loan{}
	if err := sqlx.SelectContext(ctx, r.db, &loans, query, now); err != nil {
		return nil, err
	}

	return loans, nil
}
