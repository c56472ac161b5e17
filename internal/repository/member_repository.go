package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/fundease/internal/domain"
)

const memberColumns = `id, user_id, first_name, last_name, email, status, created_at, updated_at`

type memberRepository struct {
	db sqlx.ExtContext
}

func NewMemberRepository(db sqlx.ExtContext) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	return r.get(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
}

func (r *memberRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	return r.get(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1 FOR UPDATE`, id)
}

func (r *memberRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Member, error) {
	return r.get(ctx, `SELECT `+memberColumns+` FROM members WHERE user_id = $1`, userID)
}

func (r *memberRepository) get(ctx context.Context, query string, arg uuid.UUID) (*domain.Member, error) {
	var m domain.Member
	if err := sqlx.GetContext(ctx, r.db, &m, query, arg); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MemberStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE members SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
