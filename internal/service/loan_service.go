package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/repository"
	customError "github.com/segyhp/fundease/pkg/errors"
	"github.com/segyhp/fundease/pkg/utils"
)

type LoanService struct {
	base
	defaultRate decimal.Decimal
}

func NewLoanService(deps Deps, defaultRate decimal.Decimal) *LoanService {
	return &LoanService{
		base:        newBase(deps),
		defaultRate: defaultRate,
	}
}

// CreateLoan files a pending loan for the member behind request.UserID.
func (s *LoanService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	if err := s.validate.Struct(request); err != nil {
		return nil, err
	}

	member, err := activeMember(ctx, s.repos.Members, request.UserID)
	if err != nil {
		return nil, err
	}

	rate := s.defaultRate
	if request.InterestRate != nil {
		rate = *request.InterestRate
	}

	now := s.now()
	loan := &domain.Loan{
		ID:               uuid.New(),
		MemberID:         member.ID,
		UserID:           request.UserID,
		Amount:           request.Amount,
		Reason:           request.Reason,
		TermMonths:       request.TermMonths,
		InterestRate:     rate,
		MonthlyPayment:   utils.CalculateMonthlyPayment(request.Amount, rate, request.TermMonths),
		RemainingBalance: request.Amount,
		Status:           domain.LoanStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repos.Loans.Create(ctx, loan); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, customError.WrapNotFound("Member", member.ID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.InfoContext(ctx, "loan created",
		"loan_id", loan.ID,
		"member_id", loan.MemberID,
		"amount", loan.Amount.String(),
		"term_months", loan.TermMonths,
	)

	return loan, nil
}

// GetLoan returns a loan with its member name, confirmed total paid and
// repayment history.
func (s *LoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.LoanDetail, error) {
	detail, err := s.repos.Loans.GetDetail(ctx, loanID)
	if err != nil {
		return nil, lookupError(err, "Loan", loanID)
	}

	history, err := s.repos.Repayments.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	detail.PaymentHistory = history
	detail.DaysOverdue = detail.Loan.DaysOverdue(s.now())

	return detail, nil
}

func (s *LoanService) ListLoans(ctx context.Context, filter domain.LoanFilter) (*domain.LoanPage, error) {
	filter.Normalize()
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown loan status %q", filter.Status))
	}

	loans, total, err := s.repos.Loans.List(ctx, filter, s.now())
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.LoanPage{
		Loans:      loans,
		Total:      total,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ListMemberLoans returns a member's loans, newest first.
func (s *LoanService) ListMemberLoans(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error) {
	loans, err := s.repos.Loans.ListByUser(ctx, userID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

// UpdateLoanStatus moves a loan along its lifecycle and notifies the owner in
// the same transaction.
func (s *LoanService) UpdateLoanStatus(ctx context.Context, loanID uuid.UUID, request *domain.UpdateLoanStatusRequest) (*domain.Loan, error) {
	if !request.Status.Valid() {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown loan status %q", request.Status))
	}

	var (
		updated *domain.Loan
		note    *domain.Notification
	)

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := r.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return lookupError(err, "Loan", loanID)
		}

		if !loan.Status.CanTransitionTo(request.Status) {
			return customError.WrapInvalidTransition("loan", string(loan.Status), string(request.Status))
		}

		now := s.now()
		switch request.Status {
		case domain.LoanStatusApproved, domain.LoanStatusRejected:
			actor := request.ActorID
			loan.ApprovedBy = &actor
			loan.ApprovedAt = &now
		case domain.LoanStatusCompleted:
			loan.RemainingBalance = decimal.Zero
		}
		loan.Status = request.Status
		loan.UpdatedAt = now

		if err := r.Loans.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		note = loanStatusNotification(loan, now)
		if err := r.Notifications.Create(ctx, note); err != nil {
			return customError.WrapDatabaseError(err)
		}

		updated = loan
		return nil
	})
	if err != nil {
		return nil, customError.AsBusiness(err)
	}

	s.logger.InfoContext(ctx, "loan status updated",
		"loan_id", updated.ID,
		"status", updated.Status,
		"actor_id", request.ActorID,
	)
	s.publish(ctx, note)

	return updated, nil
}

func loanStatusNotification(loan *domain.Loan, now time.Time) *domain.Notification {
	amount := loan.Amount.StringFixed(2)

	var title, msg string
	kind := domain.NotificationInfo
	switch loan.Status {
	case domain.LoanStatusApproved:
		title, kind = "Loan Approved", domain.NotificationSuccess
		msg = fmt.Sprintf("Your loan application for %s has been approved.", amount)
	case domain.LoanStatusRejected:
		title, kind = "Loan Rejected", domain.NotificationError
		msg = fmt.Sprintf("Your loan application for %s has been rejected.", amount)
	case domain.LoanStatusDisbursed:
		title = "Loan Disbursed"
		msg = fmt.Sprintf("Your loan of %s has been disbursed.", amount)
	case domain.LoanStatusActive:
		title = "Loan Active"
		msg = fmt.Sprintf("Your loan of %s is now active. Monthly payment: %s.", amount, loan.MonthlyPayment.StringFixed(2))
	case domain.LoanStatusCompleted:
		title, kind = "Loan Completed", domain.NotificationSuccess
		msg = fmt.Sprintf("Your loan of %s has been fully paid.", amount)
	default:
		title = "Loan Updated"
		msg = fmt.Sprintf("Your loan of %s is now %s.", amount, loan.Status)
	}

	return domain.NewNotification(loan.UserID, title, msg, kind, now)
}
