package domain

import "github.com/shopspring/decimal"

// FundBalance breaks the fund balance down into the sums it is derived from.
type FundBalance struct {
	ConfirmedContributions decimal.Decimal `json:"confirmed_contributions" db:"confirmed_contributions"`
	ApprovedWithdrawals    decimal.Decimal `json:"approved_withdrawals" db:"approved_withdrawals"`
	InterestEarned         decimal.Decimal `json:"interest_earned" db:"interest_earned"`
}

// Total is contributions minus withdrawals plus interest.
func (f FundBalance) Total() decimal.Decimal {
	return f.ConfirmedContributions.Sub(f.ApprovedWithdrawals).Add(f.InterestEarned)
}

type LoanStats struct {
	PendingLoans    int             `json:"pending_loans" db:"pending_loans"`
	ActiveLoans     int             `json:"active_loans" db:"active_loans"`
	TotalLoanAmount decimal.Decimal `json:"total_loan_amount" db:"total_loan_amount"`
	OverdueLoans    int             `json:"overdue_loans" db:"overdue_loans"`
}

// FinancialSummary feeds the treasurer dashboard.
type FinancialSummary struct {
	FundBalance             decimal.Decimal `json:"fund_balance" db:"-"`
	TotalContributions      decimal.Decimal `json:"total_contributions" db:"total_contributions"`
	TotalWithdrawals        decimal.Decimal `json:"total_withdrawals" db:"total_withdrawals"`
	TotalLoansDisbursed     decimal.Decimal `json:"total_loans_disbursed" db:"total_loans_disbursed"`
	TotalRepayments         decimal.Decimal `json:"total_repayments" db:"total_repayments"`
	TotalInterest           decimal.Decimal `json:"total_interest" db:"total_interest"`
	PendingWithdrawalCount  int             `json:"pending_withdrawal_count" db:"pending_withdrawal_count"`
	PendingWithdrawalAmount decimal.Decimal `json:"pending_withdrawal_amount" db:"pending_withdrawal_amount"`
}

// MemberSummary feeds a member's own dashboard.
type MemberSummary struct {
	TotalConfirmed      decimal.Decimal `json:"total_confirmed" db:"total_confirmed"`
	TotalPending        decimal.Decimal `json:"total_pending" db:"total_pending"`
	TotalRejected       decimal.Decimal `json:"total_rejected" db:"total_rejected"`
	TotalLoans          int             `json:"total_loans" db:"total_loans"`
	ActiveLoanAmount    decimal.Decimal `json:"active_loan_amount" db:"active_loan_amount"`
	OutstandingBalance  decimal.Decimal `json:"outstanding_balance" db:"outstanding_balance"`
	CompletedLoanAmount decimal.Decimal `json:"completed_loan_amount" db:"completed_loan_amount"`
}
