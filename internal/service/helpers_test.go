package service

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/mocks"
)

var testNow = time.Date(2024, 4, 25, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func activeMemberFor(userID uuid.UUID) *domain.Member {
	return &domain.Member{
		ID:        uuid.New(),
		UserID:    userID,
		FirstName: "Ana",
		LastName:  "Cruz",
		Status:    domain.MemberStatusActive,
	}
}

func loanWith(status domain.LoanStatus, amount, balance string) *domain.Loan {
	return &domain.Loan{
		ID:               uuid.New(),
		MemberID:         uuid.New(),
		UserID:           uuid.New(),
		Amount:           dec(amount),
		Reason:           "tuition",
		TermMonths:       10,
		InterestRate:     dec("0.05"),
		MonthlyPayment:   dec("1050"),
		RemainingBalance: dec(balance),
		Status:           status,
		CreatedAt:        testNow.AddDate(0, -1, 0),
		UpdatedAt:        testNow.AddDate(0, -1, 0),
	}
}

// mockDeps wires services to testify mocks.
func mockDeps(store *mocks.Store, pub *mocks.MockPublisher) (Deps, *mocks.MockUnitOfWork) {
	uow := &mocks.MockUnitOfWork{Store: store}
	deps := Deps{
		UoW:    uow,
		Repos:  store.Repos(),
		Logger: quietLogger(),
		Clock:  fixedClock,
	}
	if pub != nil {
		deps.Publisher = pub
	}
	return deps, uow
}

// memDeps wires services to an in-memory ledger.
func memDeps(s *memStore) Deps {
	return Deps{
		UoW:    s,
		Repos:  s.repos(),
		Logger: quietLogger(),
		Clock:  fixedClock,
	}
}
