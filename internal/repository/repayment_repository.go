package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fundease/internal/domain"
)

const repaymentColumns = `id, loan_id, user_id, amount, payment_method, payment_proof, reference_no,
		notes, status, payment_date, created_at, updated_at`

type repaymentRepository struct {
	db sqlx.ExtContext
}

func NewRepaymentRepository(db sqlx.ExtContext) RepaymentRepository {
	return &repaymentRepository{db: db}
}

func (r *repaymentRepository) Create(ctx context.Context, repayment *domain.Repayment) error {
	query := `
		INSERT INTO loan_repayments (` + repaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		repayment.ID,
		repayment.LoanID,
		repayment.UserID,
		repayment.Amount,
		repayment.PaymentMethod,
		repayment.PaymentProof,
		repayment.ReferenceNo,
		repayment.Notes,
		repayment.Status,
		repayment.PaymentDate,
		repayment.CreatedAt,
		repayment.UpdatedAt,
	)

	return translateError(err)
}

func (r *repaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Repayment, error) {
	return r.get(ctx, `SELECT `+repaymentColumns+` FROM loan_repayments WHERE id = $1`, id)
}

func (r *repaymentRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Repayment, error) {
	return r.get(ctx, `SELECT `+repaymentColumns+` FROM loan_repayments WHERE id = $1 FOR UPDATE`, id)
}

func (r *repaymentRepository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Repayment, error) {
	var repayment domain.Repayment
	if err := sqlx.GetContext(ctx, r.db, &repayment, query, id); err != nil {
		return nil, err
	}
	return &repayment, nil
}

func (r *repaymentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Repayment, error) {
	query := `SELECT ` + repaymentColumns + ` FROM loan_repayments WHERE loan_id = $1 ORDER BY payment_date DESC, created_at DESC`

	repayments := []*domain.Repayment{}
	if err := sqlx.SelectContext(ctx, r.db, &repayments, query, loanID); err != nil {
		return nil, err
	}

	return repayments, nil
}

func (r *repaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Repayment, error) {
	query := `SELECT ` + repaymentColumns + ` FROM loan_repayments WHERE user_id = $1 ORDER BY payment_date DESC, created_at DESC`

	repayments := []*domain.Repayment{}
	if err := sqlx.SelectContext(ctx, r.db, &repayments, query, userID); err != nil {
		return nil, err
	}

	return repayments, nil
}

func (r *repaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RepaymentStatus, notes *string) error {
	query := `
		UPDATE loan_repayments
		SET status = $2, notes = COALESCE($3, notes), updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, status, notes)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
