package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/fundease/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByIDForUpdate retrieves a loan and locks its row until the
	// surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetDetail retrieves a loan with member name and confirmed total paid
	GetDetail(ctx context.Context, id uuid.UUID) (*domain.LoanDetail, error)

	// Update persists balance, status and approval fields of a loan
	Update(ctx context.Context, loan *domain.Loan) error

	// ListByUser retrieves a user's loans, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error)

	// List retrieves one page of loans and the total row count for filter
	List(ctx context.Context, filter domain.LoanFilter, now time.Time) ([]*domain.LoanListItem, int, error)

	// ListOverdue retrieves repayable loans whose term ended before now
	ListOverdue(ctx context.Context, now time.Time) ([]*domain.Loan, error)
}

// RepaymentRepository defines the interface for repayment data operations
type RepaymentRepository interface {
	Create(ctx context.Context, repayment *domain.Repayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Repayment, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Repayment, error)
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Repayment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Repayment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RepaymentStatus, notes *string) error
}

// ContributionRepository defines the interface for contribution data operations
type ContributionRepository interface {
	Create(ctx context.Context, contribution *domain.Contribution) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contribution, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Contribution, error)
	List(ctx context.Context, filter domain.ContributionFilter) ([]*domain.Contribution, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContributionStatus, notes *string) error
}

// WithdrawalRepository defines the interface for withdrawal data operations
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *domain.Withdrawal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error)
	// List retrieves withdrawals of userID, or of every member when userID is nil
	List(ctx context.Context, userID *uuid.UUID) ([]*domain.Withdrawal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WithdrawalStatus, notes *string) error
}

// MemberRepository resolves users to fund memberships
type MemberRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Member, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MemberStatus) error
}

// NotificationRepository stores in-app notifications
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error)
}

// ReportRepository runs the read-side aggregate queries
type ReportRepository interface {
	FundBalance(ctx context.Context) (*domain.FundBalance, error)
	LoanStats(ctx context.Context, now time.Time) (*domain.LoanStats, error)
	FinancialSummary(ctx context.Context) (*domain.FinancialSummary, error)
	MemberSummary(ctx context.Context, userID uuid.UUID) (*domain.MemberSummary, error)
}

// Repos groups repositories bound to the same connection or transaction
type Repos struct {
	Loans         LoanRepository
	Repayments    RepaymentRepository
	Contributions ContributionRepository
	Withdrawals   WithdrawalRepository
	Members       MemberRepository
	Notifications NotificationRepository
}

// UnitOfWork runs fn inside one database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
