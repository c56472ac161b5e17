package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/repository"
	customError "github.com/segyhp/fundease/pkg/errors"
)

type RepaymentService struct {
	base
	policy domain.BalancePolicy
}

func NewRepaymentService(deps Deps, policy domain.BalancePolicy) *RepaymentService {
	if policy == "" {
		policy = domain.BalanceOnSubmission
	}
	return &RepaymentService{
		base:   newBase(deps),
		policy: policy,
	}
}

// RepayLoan records a repayment against a loan. The loan row stays locked
// from the balance check until commit, so concurrent repayments of the same
// loan are applied one at a time.
func (s *RepaymentService) RepayLoan(ctx context.Context, request *domain.RepayLoanRequest) (*domain.RepaymentResult, error) {
	if !request.Amount.IsPositive() {
		return nil, customError.WrapValidation("amount must be greater than 0")
	}
	if err := s.validate.Struct(request); err != nil {
		return nil, err
	}

	var (
		result *domain.RepaymentResult
		note   *domain.Notification
	)

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		loan, err := r.Loans.GetByIDForUpdate(ctx, request.LoanID)
		if err != nil {
			return lookupError(err, "Loan", request.LoanID)
		}

		if err := checkRepayable(loan, request.Amount); err != nil {
			return err
		}

		now := s.now()
		repayment := &domain.Repayment{
			ID:            uuid.New(),
			LoanID:        loan.ID,
			UserID:        request.UserID,
			Amount:        request.Amount,
			PaymentMethod: request.PaymentMethod,
			PaymentProof:  request.PaymentProof,
			ReferenceNo:   request.ReferenceNo,
			Notes:         request.Notes,
			Status:        domain.RepaymentStatusPending,
			PaymentDate:   now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Repayments.Create(ctx, repayment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		result = &domain.RepaymentResult{
			RepaymentID: repayment.ID,
			NewBalance:  loan.RemainingBalance,
		}

		if s.policy == domain.BalanceOnConfirmation {
			return nil
		}

		note, err = applyRepayment(ctx, r, loan, request.Amount, now)
		if err != nil {
			return err
		}
		result.NewBalance = loan.RemainingBalance
		result.Closed = loan.Status == domain.LoanStatusCompleted
		return nil
	})
	if err != nil {
		return nil, customError.AsBusiness(err)
	}

	s.logger.InfoContext(ctx, "repayment recorded",
		"loan_id", request.LoanID,
		"repayment_id", result.RepaymentID,
		"amount", request.Amount.String(),
		"new_balance", result.NewBalance.String(),
		"closed", result.Closed,
	)
	if note != nil {
		s.publish(ctx, note)
	}

	return result, nil
}

// UpdateRepaymentStatus confirms or rejects a pending repayment. Under the
// confirmation policy a confirmed repayment is the moment the loan balance
// drops.
func (s *RepaymentService) UpdateRepaymentStatus(ctx context.Context, repaymentID uuid.UUID, request *domain.UpdateRepaymentStatusRequest) (*domain.Repayment, error) {
	if !request.Status.Valid() {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown repayment status %q", request.Status))
	}

	var (
		updated *domain.Repayment
		notes   []*domain.Notification
	)

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		repayment, err := r.Repayments.GetByIDForUpdate(ctx, repaymentID)
		if err != nil {
			return lookupError(err, "Repayment", repaymentID)
		}

		if !repayment.Status.CanTransitionTo(request.Status) {
			return customError.WrapInvalidTransition("repayment", string(repayment.Status), string(request.Status))
		}

		now := s.now()
		if s.policy == domain.BalanceOnConfirmation && request.Status == domain.RepaymentStatusConfirmed {
			loan, err := r.Loans.GetByIDForUpdate(ctx, repayment.LoanID)
			if err != nil {
				return lookupError(err, "Loan", repayment.LoanID)
			}
			if err := checkRepayable(loan, repayment.Amount); err != nil {
				return err
			}
			closed, err := applyRepayment(ctx, r, loan, repayment.Amount, now)
			if err != nil {
				return err
			}
			if closed != nil {
				notes = append(notes, closed)
			}
		}

		if err := r.Repayments.UpdateStatus(ctx, repayment.ID, request.Status, request.Notes); err != nil {
			return customError.WrapDatabaseError(err)
		}
		repayment.Status = request.Status
		repayment.UpdatedAt = now
		if request.Notes != nil {
			repayment.Notes = request.Notes
		}

		note := repaymentStatusNotification(repayment, now)
		if err := r.Notifications.Create(ctx, note); err != nil {
			return customError.WrapDatabaseError(err)
		}
		notes = append(notes, note)

		updated = repayment
		return nil
	})
	if err != nil {
		return nil, customError.AsBusiness(err)
	}

	s.logger.InfoContext(ctx, "repayment status updated",
		"repayment_id", updated.ID,
		"status", updated.Status,
		"actor_id", request.ActorID,
	)
	s.publish(ctx, notes...)

	return updated, nil
}

// ListRepayments returns the repayment history of a loan.
func (s *RepaymentService) ListRepayments(ctx context.Context, loanID uuid.UUID) ([]*domain.Repayment, error) {
	if _, err := s.repos.Loans.GetByID(ctx, loanID); err != nil {
		return nil, lookupError(err, "Loan", loanID)
	}

	repayments, err := s.repos.Repayments.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return repayments, nil
}

func (s *RepaymentService) ListUserRepayments(ctx context.Context, userID uuid.UUID) ([]*domain.Repayment, error) {
	repayments, err := s.repos.Repayments.ListByUser(ctx, userID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return repayments, nil
}

// checkRepayable runs the balance checks in order: settled, lifecycle, amount.
func checkRepayable(loan *domain.Loan, amount decimal.Decimal) error {
	if loan.IsSettled() {
		return customError.WrapAlreadySettled(loan.ID.String())
	}
	if !loan.Status.AcceptsRepayment() {
		return customError.WrapInvalidState(fmt.Sprintf("loan %s is %s and does not accept repayments", loan.ID, loan.Status))
	}
	if amount.GreaterThan(loan.RemainingBalance) {
		return customError.WrapExceedsBalance(amount.StringFixed(2), loan.RemainingBalance.StringFixed(2))
	}
	return nil
}

// applyRepayment lowers the balance of a locked loan and completes it at zero.
// It returns the owner's notification when the loan closes.
func applyRepayment(ctx context.Context, r repository.Repos, loan *domain.Loan, amount decimal.Decimal, now time.Time) (*domain.Notification, error) {
	loan.RemainingBalance = loan.RemainingBalance.Sub(amount)
	loan.UpdatedAt = now

	closed := loan.RemainingBalance.IsZero()
	if closed {
		loan.Status = domain.LoanStatusCompleted
	}

	if err := r.Loans.Update(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if !closed {
		return nil, nil
	}

	note := loanStatusNotification(loan, now)
	if err := r.Notifications.Create(ctx, note); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return note, nil
}

func repaymentStatusNotification(repayment *domain.Repayment, now time.Time) *domain.Notification {
	amount := repayment.Amount.StringFixed(2)
	if repayment.Status == domain.RepaymentStatusConfirmed {
		return domain.NewNotification(repayment.UserID, "Repayment Confirmed",
			fmt.Sprintf("Your loan repayment of %s has been confirmed.", amount), domain.NotificationSuccess, now)
	}
	return domain.NewNotification(repayment.UserID, "Repayment Rejected",
		fmt.Sprintf("Your loan repayment of %s has been rejected.", amount), domain.NotificationError, now)
}
