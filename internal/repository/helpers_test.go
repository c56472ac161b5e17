package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return sqlx.NewDb(db, "postgres"), mock
}

var loanRowColumns = []string{
	"id", "member_id", "user_id", "amount", "reason", "term_months", "interest_rate",
	"monthly_payment", "remaining_balance", "status", "approved_by", "approved_at", "created_at", "updated_at",
}
