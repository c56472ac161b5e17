package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/repository"
	customError "github.com/segyhp/fundease/pkg/errors"
)

// LedgerService handles the money members put into and take out of the fund.
type LedgerService struct {
	base
}

func NewLedgerService(deps Deps) *LedgerService {
	return &LedgerService{base: newBase(deps)}
}

func (s *LedgerService) CreateContribution(ctx context.Context, request *domain.CreateContributionRequest) (*domain.Contribution, error) {
	if err := s.validate.Struct(request); err != nil {
		return nil, err
	}

	member, err := activeMember(ctx, s.repos.Members, request.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	contribution := &domain.Contribution{
		ID:               uuid.New(),
		MemberID:         member.ID,
		UserID:           request.UserID,
		Amount:           request.Amount,
		PaymentMethod:    request.PaymentMethod,
		PaymentProof:     request.PaymentProof,
		ReferenceNo:      request.ReferenceNo,
		Notes:            request.Notes,
		Status:           domain.ContributionStatusPending,
		ContributionDate: request.ContributionDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repos.Contributions.Create(ctx, contribution); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.InfoContext(ctx, "contribution submitted",
		"contribution_id", contribution.ID,
		"member_id", member.ID,
		"amount", contribution.Amount.String(),
	)

	return contribution, nil
}

func (s *LedgerService) ListContributions(ctx context.Context, filter domain.ContributionFilter) ([]*domain.Contribution, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown contribution status %q", filter.Status))
	}
	if filter.PaymentMethod != "" && !filter.PaymentMethod.Valid() {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown payment method %q", filter.PaymentMethod))
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, customError.WrapValidation("date range ends before it starts")
	}

	contributions, err := s.repos.Contributions.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return contributions, nil
}

func (s *LedgerService) UpdateContributionStatus(ctx context.Context, id uuid.UUID, request *domain.UpdateContributionStatusRequest) (*domain.Contribution, error) {
	if !request.Status.Valid() {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown contribution status %q", request.Status))
	}

	var (
		updated *domain.Contribution
		note    *domain.Notification
	)

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		contribution, err := r.Contributions.GetByIDForUpdate(ctx, id)
		if err != nil {
			return lookupError(err, "Contribution", id)
		}

		if !contribution.Status.CanTransitionTo(request.Status) {
			return customError.WrapInvalidTransition("contribution", string(contribution.Status), string(request.Status))
		}

		if err := r.Contributions.UpdateStatus(ctx, id, request.Status, request.Notes); err != nil {
			return customError.WrapDatabaseError(err)
		}

		now := s.now()
		contribution.Status = request.Status
		contribution.UpdatedAt = now
		if request.Notes != nil {
			contribution.Notes = request.Notes
		}

		amount := contribution.Amount.StringFixed(2)
		if request.Status == domain.ContributionStatusConfirmed {
			note = domain.NewNotification(contribution.UserID, "Contribution Confirmed",
				fmt.Sprintf("Your contribution of %s has been confirmed.", amount), domain.NotificationSuccess, now)
		} else {
			note = domain.NewNotification(contribution.UserID, "Contribution Rejected",
				fmt.Sprintf("Your contribution of %s has been rejected.", amount), domain.NotificationError, now)
		}
		if err := r.Notifications.Create(ctx, note); err != nil {
			return customError.WrapDatabaseError(err)
		}

		updated = contribution
		return nil
	})
	if err != nil {
		return nil, customError.AsBusiness(err)
	}

	s.logger.InfoContext(ctx, "contribution status updated",
		"contribution_id", id,
		"status", updated.Status,
		"actor_id", request.ActorID,
	)
	s.publish(ctx, note)

	return updated, nil
}

func (s *LedgerService) CreateWithdrawal(ctx context.Context, request *domain.CreateWithdrawalRequest) (*domain.Withdrawal, error) {
	if err := s.validate.Struct(request); err != nil {
		return nil, err
	}

	member, err := activeMember(ctx, s.repos.Members, request.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	withdrawal := &domain.Withdrawal{
		ID:        uuid.New(),
		MemberID:  member.ID,
		UserID:    request.UserID,
		Amount:    request.Amount,
		Reason:    request.Reason,
		Date:      request.Date,
		Status:    domain.WithdrawalStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repos.Withdrawals.Create(ctx, withdrawal); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.InfoContext(ctx, "withdrawal requested",
		"withdrawal_id", withdrawal.ID,
		"member_id", member.ID,
		"amount", withdrawal.Amount.String(),
	)

	return withdrawal, nil
}

// ListWithdrawals returns the withdrawals of userID, or of every member when
// userID is nil.
func (s *LedgerService) ListWithdrawals(ctx context.Context, userID *uuid.UUID) ([]*domain.Withdrawal, error) {
	withdrawals, err := s.repos.Withdrawals.List(ctx, userID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return withdrawals, nil
}

func (s *LedgerService) UpdateWithdrawalStatus(ctx context.Context, id uuid.UUID, request *domain.UpdateWithdrawalStatusRequest) (*domain.Withdrawal, error) {
	if !request.Status.Valid() {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown withdrawal status %q", request.Status))
	}

	var (
		updated *domain.Withdrawal
		note    *domain.Notification
	)

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		withdrawal, err := r.Withdrawals.GetByIDForUpdate(ctx, id)
		if err != nil {
			return lookupError(err, "Withdrawal", id)
		}

		if !withdrawal.Status.CanTransitionTo(request.Status) {
			return customError.WrapInvalidTransition("withdrawal", string(withdrawal.Status), string(request.Status))
		}

		if err := r.Withdrawals.UpdateStatus(ctx, id, request.Status, request.Notes); err != nil {
			return customError.WrapDatabaseError(err)
		}

		now := s.now()
		withdrawal.Status = request.Status
		withdrawal.UpdatedAt = now
		if request.Notes != nil {
			withdrawal.Notes = request.Notes
		}

		amount := withdrawal.Amount.StringFixed(2)
		if request.Status == domain.WithdrawalStatusApproved {
			note = domain.NewNotification(withdrawal.UserID, "Withdrawal Approved",
				fmt.Sprintf("Your withdrawal request of %s has been approved.", amount), domain.NotificationSuccess, now)
		} else {
			note = domain.NewNotification(withdrawal.UserID, "Withdrawal Rejected",
				fmt.Sprintf("Your withdrawal request of %s has been rejected.", amount), domain.NotificationError, now)
		}
		if err := r.Notifications.Create(ctx, note); err != nil {
			return customError.WrapDatabaseError(err)
		}

		updated = withdrawal
		return nil
	})
	if err != nil {
		return nil, customError.AsBusiness(err)
	}

	s.logger.InfoContext(ctx, "withdrawal status updated",
		"withdrawal_id", id,
		"status", updated.Status,
		"actor_id", request.ActorID,
	)
	s.publish(ctx, note)

	return updated, nil
}
