package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrForeignKey is returned when a row references a parent that does not exist.
var ErrForeignKey = errors.New("referenced record does not exist")

const pqForeignKeyViolation = "23503"

// NewRepos binds every repository to db, which may be a *sqlx.DB or a *sqlx.Tx.
func NewRepos(db sqlx.ExtContext) Repos {
	return Repos{
		Loans:         NewLoanRepository(db),
		Repayments:    NewRepaymentRepository(db),
		Contributions: NewContributionRepository(db),
		Withdrawals:   NewWithdrawalRepository(db),
		Members:       NewMemberRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

type sqlxUnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) UnitOfWork {
	return &sqlxUnitOfWork{db: db}
}

func (u *sqlxUnitOfWork) WithinTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := u.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}

	return tx.Commit()
}

// translateError maps driver errors the services care about onto package errors.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		return ErrForeignKey
	}
	return err
}

// expectAffected turns an UPDATE that touched no rows into sql.ErrNoRows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
