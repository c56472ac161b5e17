//go:build integration

package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/repository"
	"github.com/segyhp/fundease/internal/service"
	customError "github.com/segyhp/fundease/pkg/errors"
)

// Run with: FUNDEASE_TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/service/
// The database is wiped before every test.

var testDB *sqlx.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("FUNDEASE_TEST_DATABASE_URL")
	if dsn == "" {
		fmt.Println("FUNDEASE_TEST_DATABASE_URL not set, skipping integration tests")
		os.Exit(0)
	}

	var err error
	testDB, err = sqlx.Connect("postgres", dsn)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to test database: %v", err))
	}

	if err := executeInitSQL(testDB); err != nil {
		panic(fmt.Sprintf("failed to initialize database schema: %v", err))
	}

	code := m.Run()
	testDB.Close()
	os.Exit(code)
}

func executeInitSQL(db *sqlx.DB) error {
	sqlBytes, err := os.ReadFile("../../scripts/init.sql")
	if err != nil {
		return fmt.Errorf("failed to read init.sql: %w", err)
	}

	if _, err := db.Exec(string(sqlBytes)); err != nil {
		return fmt.Errorf("failed to execute init.sql: %w", err)
	}
	return nil
}

func setupTestDB(t *testing.T) service.Deps {
	t.Helper()

	_, err := testDB.Exec(`TRUNCATE notifications, loan_repayments, contributions, withdrawals, loans, members`)
	require.NoError(t, err)

	return service.Deps{
		UoW:    repository.NewUnitOfWork(testDB),
		Repos:  repository.NewRepos(testDB),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:  time.Now,
	}
}

func seedMember(t *testing.T) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	_, err := testDB.Exec(`
		INSERT INTO members (id, user_id, first_name, last_name, email, status)
		VALUES ($1, $2, 'Ana', 'Cruz', 'ana@example.com', 'active')`,
		uuid.New(), userID)
	require.NoError(t, err)
	return userID
}

func approvedLoan(t *testing.T, deps service.Deps, userID uuid.UUID, amount int64) *domain.Loan {
	t.Helper()
	ctx := context.Background()
	loans := service.NewLoanService(deps, decimal.RequireFromString("0.05"))

	loan, err := loans.CreateLoan(ctx, &domain.CreateLoanRequest{
		UserID:     userID,
		Amount:     decimal.NewFromInt(amount),
		Reason:     "tuition",
		TermMonths: 10,
	})
	require.NoError(t, err)

	loan, err = loans.UpdateLoanStatus(ctx, loan.ID, &domain.UpdateLoanStatusRequest{
		Status:  domain.LoanStatusApproved,
		ActorID: uuid.New(),
	})
	require.NoError(t, err)
	return loan
}

func repay(svc *service.RepaymentService, loan *domain.Loan, amount int64) (*domain.RepaymentResult, error) {
	return svc.RepayLoan(context.Background(), &domain.RepayLoanRequest{
		LoanID:        loan.ID,
		UserID:        loan.UserID,
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: domain.PaymentMethodGCash,
	})
}

func TestLoanLifecycle(t *testing.T) {
	deps := setupTestDB(t)
	loan := approvedLoan(t, deps, seedMember(t), 10000)
	repayments := service.NewRepaymentService(deps, domain.BalanceOnSubmission)

	first, err := repay(repayments, loan, 4000)
	require.NoError(t, err)
	assert.True(t, first.NewBalance.Equal(decimal.NewFromInt(6000)))

	second, err := repay(repayments, loan, 6000)
	require.NoError(t, err)
	assert.True(t, second.Closed)

	stored, err := deps.Repos.Loans.GetByID(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusCompleted, stored.Status)
	assert.True(t, stored.RemainingBalance.IsZero())

	_, err = repay(repayments, loan, 1)
	assert.ErrorIs(t, err, customError.ErrAlreadySettled)

	notifications, err := deps.Repos.Notifications.ListByUser(context.Background(), loan.UserID, true)
	require.NoError(t, err)
	titles := make([]string, 0, len(notifications))
	for _, n := range notifications {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Loan Approved")
	assert.Contains(t, titles, "Loan Completed")
}

func TestConcurrentRepaymentsUseRowLock(t *testing.T) {
	deps := setupTestDB(t)
	loan := approvedLoan(t, deps, seedMember(t), 1000)
	repayments := service.NewRepaymentService(deps, domain.BalanceOnSubmission)

	const workers = 5
	var (
		wg   sync.WaitGroup
		errs = make([]error, workers)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repay(repayments, loan, 600)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, customError.ErrExceedsBalance), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	stored, err := deps.Repos.Loans.GetByID(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.True(t, stored.RemainingBalance.Equal(decimal.NewFromInt(400)), "got %s", stored.RemainingBalance)

	history, err := deps.Repos.Repayments.ListByLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestFundBalanceAgainstPostgres(t *testing.T) {
	deps := setupTestDB(t)
	userID := seedMember(t)
	ctx := context.Background()
	ledger := service.NewLedgerService(deps)

	contribution, err := ledger.CreateContribution(ctx, &domain.CreateContributionRequest{
		UserID:           userID,
		Amount:           decimal.NewFromInt(50000),
		PaymentMethod:    domain.PaymentMethodBankTransfer,
		ContributionDate: time.Now(),
	})
	require.NoError(t, err)
	_, err = ledger.UpdateContributionStatus(ctx, contribution.ID, &domain.UpdateContributionStatusRequest{Status: domain.ContributionStatusConfirmed})
	require.NoError(t, err)

	withdrawal, err := ledger.CreateWithdrawal(ctx, &domain.CreateWithdrawalRequest{
		UserID: userID,
		Amount: decimal.NewFromInt(5000),
		Reason: "hospital bill",
		Date:   time.Now(),
	})
	require.NoError(t, err)
	_, err = ledger.UpdateWithdrawalStatus(ctx, withdrawal.ID, &domain.UpdateWithdrawalStatusRequest{Status: domain.WithdrawalStatusApproved})
	require.NoError(t, err)

	approvedLoan(t, deps, userID, 10000)

	reports := service.NewReportService(repository.NewReportRepository(testDB), deps.Repos.Members, time.Now)
	balance, err := reports.ComputeFundBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(45500)), "got %s", balance)
}
