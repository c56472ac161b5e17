package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RepaymentStatus string

const (
	RepaymentStatusPending   RepaymentStatus = "pending"
	RepaymentStatusConfirmed RepaymentStatus = "confirmed"
	RepaymentStatusRejected  RepaymentStatus = "rejected"
)

// Repayment is a member's payment against a loan
type Repayment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LoanID        uuid.UUID       `json:"loan_id" db:"loan_id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method" db:"payment_method"`
	PaymentProof  *string         `json:"payment_proof,omitempty" db:"payment_proof"`
	ReferenceNo   *string         `json:"reference_no,omitempty" db:"reference_no"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	Status        RepaymentStatus `json:"status" db:"status"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

type RepayLoanRequest struct {
	LoanID        uuid.UUID       `json:"-" validate:"required"`
	UserID        uuid.UUID       `json:"user_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required,decimal_gt=0,decimal_places=2"`
	PaymentMethod PaymentMethod   `json:"payment_method" validate:"required,payment_method"`
	PaymentProof  *string         `json:"payment_proof,omitempty"`
	ReferenceNo   *string         `json:"reference_no,omitempty" validate:"omitempty,max=100"`
	Notes         *string         `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// RepaymentResult reports the loan balance after a repayment was recorded.
type RepaymentResult struct {
	RepaymentID uuid.UUID       `json:"repayment_id"`
	NewBalance  decimal.Decimal `json:"new_balance"`
	Closed      bool            `json:"closed"`
}

type UpdateRepaymentStatusRequest struct {
	Status  RepaymentStatus `json:"status" validate:"required"`
	Notes   *string         `json:"notes,omitempty"`
	ActorID uuid.UUID       `json:"actor_id"`
}

// BalancePolicy decides when a repayment reduces the loan balance.
type BalancePolicy string

const (
	// BalanceOnSubmission decrements the balance as soon as the member submits.
	BalanceOnSubmission BalancePolicy = "submission"
	// BalanceOnConfirmation waits for staff to confirm the repayment.
	BalanceOnConfirmation BalancePolicy = "confirmation"
)
