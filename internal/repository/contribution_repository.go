package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fundease/internal/domain"
)

const contributionColumns = `id, member_id, user_id, amount, payment_method, payment_proof, reference_no,
		notes, status, contribution_date, created_at, updated_at`

type contributionRepository struct {
	db sqlx.ExtContext
}

func NewContributionRepository(db sqlx.ExtContext) ContributionRepository {
	return &contributionRepository{db: db}
}

func (r *contributionRepository) Create(ctx context.Context, c *domain.Contribution) error {
	query := `
		INSERT INTO contributions (` + contributionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.MemberID,
		c.UserID,
		c.Amount,
		c.PaymentMethod,
		c.PaymentProof,
		c.ReferenceNo,
		c.Notes,
		c.Status,
		c.ContributionDate,
		c.CreatedAt,
		c.UpdatedAt,
	)

	return translateError(err)
}

func (r *contributionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contribution, error) {
	return r.get(ctx, `SELECT `+contributionColumns+` FROM contributions WHERE id = $1`, id)
}

func (r *contributionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Contribution, error) {
	return r.get(ctx, `SELECT `+contributionColumns+` FROM contributions WHERE id = $1 FOR UPDATE`, id)
}

func (r *contributionRepository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Contribution, error) {
	var c domain.Contribution
	if err := sqlx.GetContext(ctx, r.db, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contributionRepository) List(ctx context.Context, filter domain.ContributionFilter) ([]*domain.Contribution, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.PaymentMethod != "" {
		add("payment_method = $%d", filter.PaymentMethod)
	}
	if filter.From != nil {
		add("contribution_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("contribution_date <= $%d", *filter.To)
	}

	query := `SELECT ` + contributionColumns + ` FROM contributions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY contribution_date DESC, created_at DESC`

	contributions := []*domain.Contribution{}
	if err := sqlx.SelectContext(ctx, r.db, &contributions, query, args...); err != nil {
		return nil, err
	}

	return contributions, nil
}

func (r *contributionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContributionStatus, notes *string) error {
	query := `
		UPDATE contributions
		SET status = $2, notes = COALESCE($3, notes), updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, status, notes)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
