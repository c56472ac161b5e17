package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoanOverdue(t *testing.T) {
	created := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		balance     decimal.Decimal
		now         time.Time
		overdue     bool
		daysOverdue int
	}{
		{"within term", decimal.NewFromInt(500), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false, 0},
		{"on due date", decimal.NewFromInt(500), time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), false, 0},
		{"past term with balance", decimal.NewFromInt(500), time.Date(2024, 4, 25, 0, 0, 0, 0, time.UTC), true, 15},
		{"past term but settled", decimal.Zero, time.Date(2024, 4, 25, 0, 0, 0, 0, time.UTC), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := &Loan{
				Amount:           decimal.NewFromInt(1000),
				RemainingBalance: tt.balance,
				TermMonths:       3,
				CreatedAt:        created,
			}
			assert.Equal(t, tt.overdue, loan.IsOverdue(tt.now))
			assert.Equal(t, tt.daysOverdue, loan.DaysOverdue(tt.now))
		})
	}
}

func TestLoanInterest(t *testing.T) {
	loan := &Loan{Amount: decimal.NewFromInt(10000), InterestRate: decimal.RequireFromString("0.05")}
	assert.True(t, loan.Interest().Equal(decimal.NewFromInt(500)))
}

func TestLoanFilterNormalize(t *testing.T) {
	tests := []struct {
		name   string
		in     LoanFilter
		expect LoanFilter
	}{
		{
			name:   "defaults",
			in:     LoanFilter{},
			expect: LoanFilter{Page: 1, Limit: DefaultPageLimit, SortBy: LoanSortCreatedAt, SortDir: "DESC"},
		},
		{
			name:   "unknown sort column falls back",
			in:     LoanFilter{Page: 3, Limit: 20, SortBy: "1; DROP TABLE loans", SortDir: "asc"},
			expect: LoanFilter{Page: 3, Limit: 20, SortBy: LoanSortCreatedAt, SortDir: "ASC"},
		},
		{
			name:   "limit is capped",
			in:     LoanFilter{Page: 1, Limit: 5000, SortBy: LoanSortMemberName, SortDir: "sideways"},
			expect: LoanFilter{Page: 1, Limit: MaxPageLimit, SortBy: LoanSortMemberName, SortDir: "DESC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.in
			f.Normalize()
			assert.Equal(t, tt.expect, f)
		})
	}
}

func TestFundBalanceTotal(t *testing.T) {
	fb := FundBalance{
		ConfirmedContributions: decimal.NewFromInt(50000),
		ApprovedWithdrawals:    decimal.NewFromInt(5000),
		InterestEarned:         decimal.NewFromInt(500),
	}
	assert.True(t, fb.Total().Equal(decimal.NewFromInt(45500)))
}
