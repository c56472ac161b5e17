package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/fundease/pkg/utils"
)

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusApproved  LoanStatus = "approved"
	LoanStatusRejected  LoanStatus = "rejected"
	LoanStatusDisbursed LoanStatus = "disbursed"
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
)

// Loan represents a member's loan. RemainingBalance starts at Amount and only
// ever decreases; the loan is completed exactly when it reaches zero.
type Loan struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	MemberID         uuid.UUID       `json:"member_id" db:"member_id"`
	UserID           uuid.UUID       `json:"user_id" db:"user_id"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	Reason           string          `json:"reason" db:"reason"`
	TermMonths       int             `json:"term_months" db:"term_months"`
	InterestRate     decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	MonthlyPayment   decimal.Decimal `json:"monthly_payment" db:"monthly_payment"`
	RemainingBalance decimal.Decimal `json:"remaining_balance" db:"remaining_balance"`
	Status           LoanStatus      `json:"status" db:"status"`
	ApprovedBy       *uuid.UUID      `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty" db:"approved_at"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// Interest is the add-on interest the fund earns on this loan.
func (l *Loan) Interest() decimal.Decimal {
	return utils.CalculateInterest(l.Amount, l.InterestRate)
}

// DueDate is the end of the loan term.
func (l *Loan) DueDate() time.Time {
	return utils.CalculateDueDate(l.CreatedAt, l.TermMonths)
}

// IsOverdue reports whether the term has elapsed with money still owed.
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.RemainingBalance.IsPositive() && now.After(l.DueDate())
}

// DaysOverdue is zero unless the loan is overdue.
func (l *Loan) DaysOverdue(now time.Time) int {
	if !l.IsOverdue(now) {
		return 0
	}
	return utils.DaysOverdue(l.DueDate(), now)
}

// IsSettled reports whether nothing remains to be repaid.
func (l *Loan) IsSettled() bool {
	return !l.RemainingBalance.IsPositive()
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	UserID       uuid.UUID        `json:"user_id" validate:"required"`
	Amount       decimal.Decimal  `json:"amount" validate:"required,decimal_gt=0,decimal_places=2"`
	Reason       string           `json:"reason" validate:"required,max=500"`
	TermMonths   int              `json:"term_months" validate:"required,gt=0,lte=120"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty" validate:"omitempty,decimal_gte=0,decimal_places=4"`
}

type UpdateLoanStatusRequest struct {
	Status  LoanStatus `json:"status" validate:"required"`
	ActorID uuid.UUID  `json:"actor_id"`
}

// LoanListItem is a loan row enriched for staff listings.
type LoanListItem struct {
	Loan
	MemberName  string          `json:"member_name" db:"member_name"`
	TotalPaid   decimal.Decimal `json:"total_paid" db:"total_paid"`
	DaysOverdue int             `json:"days_overdue" db:"days_overdue"`
}

// LoanDetail is a single loan with its repayment history.
type LoanDetail struct {
	Loan
	MemberName     string          `json:"member_name" db:"member_name"`
	TotalPaid      decimal.Decimal `json:"total_paid" db:"total_paid"`
	DaysOverdue    int             `json:"days_overdue" db:"-"`
	PaymentHistory []*Repayment    `json:"payment_history" db:"-"`
}

const (
	LoanSortCreatedAt  = "created_at"
	LoanSortAmount     = "amount"
	LoanSortStatus     = "status"
	LoanSortMemberName = "member_name"

	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type LoanFilter struct {
	Status  LoanStatus
	Search  string
	Page    int
	Limit   int
	SortBy  string
	SortDir string
}

// Normalize applies paging defaults and the sort whitelist.
func (f *LoanFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	switch f.SortBy {
	case LoanSortCreatedAt, LoanSortAmount, LoanSortStatus, LoanSortMemberName:
	default:
		f.SortBy = LoanSortCreatedAt
	}
	if strings.EqualFold(f.SortDir, "ASC") {
		f.SortDir = "ASC"
	} else {
		f.SortDir = "DESC"
	}
}

func (f *LoanFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type LoanPage struct {
	Loans      []*LoanListItem `json:"loans"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}
