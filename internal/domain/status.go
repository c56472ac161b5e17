package domain

import "slices"

// Allowed status transitions. A status missing from a table is terminal.
var (
	loanTransitions = map[LoanStatus][]LoanStatus{
		LoanStatusPending:   {LoanStatusApproved, LoanStatusRejected},
		LoanStatusApproved:  {LoanStatusDisbursed, LoanStatusActive, LoanStatusCompleted},
		LoanStatusDisbursed: {LoanStatusActive, LoanStatusCompleted},
		LoanStatusActive:    {LoanStatusCompleted},
	}

	repaymentTransitions = map[RepaymentStatus][]RepaymentStatus{
		RepaymentStatusPending: {RepaymentStatusConfirmed, RepaymentStatusRejected},
	}

	contributionTransitions = map[ContributionStatus][]ContributionStatus{
		ContributionStatusPending: {ContributionStatusConfirmed, ContributionStatusRejected},
	}

	withdrawalTransitions = map[WithdrawalStatus][]WithdrawalStatus{
		WithdrawalStatusPending: {WithdrawalStatusApproved, WithdrawalStatusRejected},
	}

	memberTransitions = map[MemberStatus][]MemberStatus{
		MemberStatusPending:   {MemberStatusActive, MemberStatusRejected},
		MemberStatusActive:    {MemberStatusSuspended},
		MemberStatusSuspended: {MemberStatusActive},
	}
)

func canTransition[S comparable](table map[S][]S, from, to S) bool {
	return slices.Contains(table[from], to)
}

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanStatusPending, LoanStatusApproved, LoanStatusRejected,
		LoanStatusDisbursed, LoanStatusActive, LoanStatusCompleted:
		return true
	}
	return false
}

func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	return canTransition(loanTransitions, s, next)
}

func (s LoanStatus) IsTerminal() bool {
	return len(loanTransitions[s]) == 0
}

// AcceptsRepayment reports whether funds were released for a loan in this status.
func (s LoanStatus) AcceptsRepayment() bool {
	return s == LoanStatusApproved || s == LoanStatusDisbursed || s == LoanStatusActive
}

// EarnsInterest reports whether the loan's interest counts toward the fund.
func (s LoanStatus) EarnsInterest() bool {
	return s.AcceptsRepayment() || s == LoanStatusCompleted
}

func (s RepaymentStatus) Valid() bool {
	return s == RepaymentStatusPending || s == RepaymentStatusConfirmed || s == RepaymentStatusRejected
}

func (s RepaymentStatus) CanTransitionTo(next RepaymentStatus) bool {
	return canTransition(repaymentTransitions, s, next)
}

func (s ContributionStatus) Valid() bool {
	return s == ContributionStatusPending || s == ContributionStatusConfirmed || s == ContributionStatusRejected
}

func (s ContributionStatus) CanTransitionTo(next ContributionStatus) bool {
	return canTransition(contributionTransitions, s, next)
}

func (s WithdrawalStatus) Valid() bool {
	return s == WithdrawalStatusPending || s == WithdrawalStatusApproved || s == WithdrawalStatusRejected
}

func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	return canTransition(withdrawalTransitions, s, next)
}

func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusPending, MemberStatusActive, MemberStatusSuspended, MemberStatusRejected:
		return true
	}
	return false
}

func (s MemberStatus) CanTransitionTo(next MemberStatus) bool {
	return canTransition(memberTransitions, s, next)
}
