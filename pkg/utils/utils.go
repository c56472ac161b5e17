package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculateMonthlyPayment calculates the monthly installment of an add-on
// interest loan.
// Formula: (Principal + Principal*Rate) / Months
func CalculateMonthlyPayment(principal decimal.Decimal, rate decimal.Decimal, months int) decimal.Decimal {
	totalInterest := principal.Mul(rate)
	totalAmount := principal.Add(totalInterest)
	monthlyPayment := totalAmount.Div(decimal.NewFromInt(int64(months)))

	// Round to 2 decimal places
	return monthlyPayment.Round(2)
}

// CalculateInterest returns the one-off add-on interest charged on principal.
func CalculateInterest(principal decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return principal.Mul(rate)
}

// AddMonths adds calendar months to t, clamping to the last day of the target
// month (Jan 31 + 1 month = Feb 28/29) the way SQL interval arithmetic does.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return first.AddDate(0, 0, d-1)
}

// CalculateDueDate returns the date a loan's term ends
func CalculateDueDate(loanStartDate time.Time, termMonths int) time.Time {
	return AddMonths(loanStartDate, termMonths)
}

// DaysOverdue returns the whole days elapsed since dueDate, floored at 0.
func DaysOverdue(dueDate time.Time, now time.Time) int {
	if !now.After(dueDate) {
		return 0
	}
	return int(now.Sub(dueDate).Hours() / 24)
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
