package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fundease/internal/domain"
)

const withdrawalColumns = `id, member_id, user_id, amount, reason, date, notes, status, created_at, updated_at`

type withdrawalRepository struct {
	db sqlx.ExtContext
}

func NewWithdrawalRepository(db sqlx.ExtContext) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (` + withdrawalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.MemberID,
		w.UserID,
		w.Amount,
		w.Reason,
		w.Date,
		w.Notes,
		w.Status,
		w.CreatedAt,
		w.UpdatedAt,
	)

	return translateError(err)
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	return r.get(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id)
}

func (r *withdrawalRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	return r.get(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1 FOR UPDATE`, id)
}

func (r *withdrawalRepository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	if err := sqlx.GetContext(ctx, r.db, &w, query, id); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *withdrawalRepository) List(ctx context.Context, userID *uuid.UUID) ([]*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals`
	var args []interface{}
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	withdrawals := []*domain.Withdrawal{}
	if err := sqlx.SelectContext(ctx, r.db, &withdrawals, query, args...); err != nil {
		return nil, err
	}

	return withdrawals, nil
}

func (r *withdrawalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WithdrawalStatus, notes *string) error {
	query := `
		UPDATE withdrawals
		SET status = $2, notes = COALESCE($3, notes), updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, status, notes)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
