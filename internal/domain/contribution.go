package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ContributionStatus string

const (
	ContributionStatusPending   ContributionStatus = "pending"
	ContributionStatusConfirmed ContributionStatus = "confirmed"
	ContributionStatusRejected  ContributionStatus = "rejected"
)

type PaymentMethod string

const (
	PaymentMethodQRPH         PaymentMethod = "qrph"
	PaymentMethodGCash        PaymentMethod = "gcash"
	PaymentMethodMaya         PaymentMethod = "maya"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodQRPH, PaymentMethodGCash, PaymentMethodMaya, PaymentMethodBankTransfer, PaymentMethodCash:
		return true
	}
	return false
}

// Contribution is a member's deposit into the fund. Only confirmed
// contributions count toward the fund balance.
type Contribution struct {
	ID               uuid.UUID          `json:"id" db:"id"`
	MemberID         uuid.UUID          `json:"member_id" db:"member_id"`
	UserID           uuid.UUID          `json:"user_id" db:"user_id"`
	Amount           decimal.Decimal    `json:"amount" db:"amount"`
	PaymentMethod    PaymentMethod      `json:"payment_method" db:"payment_method"`
	PaymentProof     *string            `json:"payment_proof,omitempty" db:"payment_proof"`
	ReferenceNo      *string            `json:"reference_no,omitempty" db:"reference_no"`
	Notes            *string            `json:"notes,omitempty" db:"notes"`
	Status           ContributionStatus `json:"status" db:"status"`
	ContributionDate time.Time          `json:"contribution_date" db:"contribution_date"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" db:"updated_at"`
}

type CreateContributionRequest struct {
	UserID           uuid.UUID       `json:"user_id" validate:"required"`
	Amount           decimal.Decimal `json:"amount" validate:"required,decimal_gt=0,decimal_places=2"`
	PaymentMethod    PaymentMethod   `json:"payment_method" validate:"required,payment_method"`
	PaymentProof     *string         `json:"payment_proof,omitempty"`
	ReferenceNo      *string         `json:"reference_no,omitempty" validate:"omitempty,max=100"`
	Notes            *string         `json:"notes,omitempty" validate:"omitempty,max=1000"`
	ContributionDate time.Time       `json:"contribution_date" validate:"required"`
}

type UpdateContributionStatusRequest struct {
	Status  ContributionStatus `json:"status" validate:"required"`
	Notes   *string            `json:"notes,omitempty"`
	ActorID uuid.UUID          `json:"actor_id"`
}

type ContributionFilter struct {
	UserID        *uuid.UUID
	Status        ContributionStatus
	PaymentMethod PaymentMethod
	From          *time.Time
	To            *time.Time
}
