package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal is a member's request to take money out of the fund
type Withdrawal struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	MemberID  uuid.UUID        `json:"member_id" db:"member_id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Amount    decimal.Decimal  `json:"amount" db:"amount"`
	Reason    string           `json:"reason" db:"reason"`
	Date      time.Time        `json:"date" db:"date"`
	Notes     *string          `json:"notes,omitempty" db:"notes"`
	Status    WithdrawalStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

type CreateWithdrawalRequest struct {
	UserID uuid.UUID       `json:"user_id" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"required,decimal_gt=0,decimal_places=2"`
	Reason string          `json:"reason" validate:"required,max=500"`
	Date   time.Time       `json:"date" validate:"required"`
}

type UpdateWithdrawalStatusRequest struct {
	Status  WithdrawalStatus `json:"status" validate:"required"`
	Notes   *string          `json:"notes,omitempty"`
	ActorID uuid.UUID        `json:"actor_id"`
}
