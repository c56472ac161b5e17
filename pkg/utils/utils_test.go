package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		months    int
		expected  decimal.Decimal
	}{
		{
			name:      "standard loan calculation",
			principal: decimal.NewFromInt(10000),
			rate:      decimal.NewFromFloat(0.05),
			months:    10,
			expected:  decimal.NewFromInt(1050), // (10,000 * 1.05) / 10 = 1,050
		},
		{
			name:      "interest is not compounded over long terms",
			principal: decimal.NewFromInt(12000),
			rate:      decimal.NewFromFloat(0.05),
			months:    24,
			expected:  decimal.NewFromInt(525), // (12,000 * 1.05) / 24 = 525
		},
		{
			name:      "zero interest rate",
			principal: decimal.NewFromInt(5000),
			rate:      decimal.NewFromInt(0),
			months:    5,
			expected:  decimal.NewFromInt(1000),
		},
		{
			name:      "rounds to cents",
			principal: decimal.NewFromInt(1000),
			rate:      decimal.NewFromFloat(0.05),
			months:    3,
			expected:  decimal.RequireFromString("350"),
		},
		{
			name:      "repeating decimal",
			principal: decimal.NewFromInt(1000),
			rate:      decimal.NewFromInt(0),
			months:    3,
			expected:  decimal.RequireFromString("333.33"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyPayment(tt.principal, tt.rate, tt.months)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestCalculateInterest(t *testing.T) {
	interest := CalculateInterest(decimal.NewFromInt(10000), decimal.NewFromFloat(0.05))
	assert.True(t, interest.Equal(decimal.NewFromInt(500)), "got %v", interest)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "plain month",
			start:    time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "clamps to end of leap february",
			start:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "clamps to end of april",
			start:    time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2023, 4, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "crosses year boundary",
			start:    time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC),
			months:   14,
			expected: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonths(tt.start, tt.months))
		})
	}
}

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{"before due date", due.AddDate(0, 0, -3), 0},
		{"exactly on due date", due, 0},
		{"a few hours late", due.Add(5 * time.Hour), 0},
		{"ten days late", due.AddDate(0, 0, 10), 10},
		{"ten and a half days late", due.AddDate(0, 0, 10).Add(12 * time.Hour), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysOverdue(due, tt.now))
		})
	}
}
