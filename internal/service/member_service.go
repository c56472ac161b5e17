package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/repository"
	customError "github.com/segyhp/fundease/pkg/errors"
)

type MemberService struct {
	base
}

func NewMemberService(deps Deps) *MemberService {
	return &MemberService{base: newBase(deps)}
}

// UpdateMemberStatus approves, rejects, suspends or reinstates a membership.
func (s *MemberService) UpdateMemberStatus(ctx context.Context, memberID uuid.UUID, request *domain.UpdateMemberStatusRequest) (*domain.Member, error) {
	if !request.Status.Valid() {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown member status %q", request.Status))
	}

	var (
		updated *domain.Member
		note    *domain.Notification
	)

	err := s.uow.WithinTx(ctx, func(r repository.Repos) error {
		member, err := r.Members.GetByIDForUpdate(ctx, memberID)
		if err != nil {
			return lookupError(err, "Member", memberID)
		}

		if !member.Status.CanTransitionTo(request.Status) {
			return customError.WrapInvalidTransition("member", string(member.Status), string(request.Status))
		}

		if err := r.Members.UpdateStatus(ctx, memberID, request.Status); err != nil {
			return customError.WrapDatabaseError(err)
		}

		now := s.now()
		prev := member.Status
		member.Status = request.Status
		member.UpdatedAt = now

		note = memberStatusNotification(member, prev, now)
		if err := r.Notifications.Create(ctx, note); err != nil {
			return customError.WrapDatabaseError(err)
		}

		updated = member
		return nil
	})
	if err != nil {
		return nil, customError.AsBusiness(err)
	}

	s.logger.InfoContext(ctx, "member status updated",
		"member_id", memberID,
		"status", updated.Status,
		"actor_id", request.ActorID,
	)
	s.publish(ctx, note)

	return updated, nil
}

func memberStatusNotification(m *domain.Member, prev domain.MemberStatus, now time.Time) *domain.Notification {
	switch m.Status {
	case domain.MemberStatusActive:
		if prev == domain.MemberStatusSuspended {
			return domain.NewNotification(m.UserID, "Membership Reinstated",
				"Your membership has been reinstated.", domain.NotificationSuccess, now)
		}
		return domain.NewNotification(m.UserID, "Membership Approved",
			fmt.Sprintf("Welcome to the fund, %s! Your membership has been approved.", m.FirstName), domain.NotificationSuccess, now)
	case domain.MemberStatusSuspended:
		return domain.NewNotification(m.UserID, "Membership Suspended",
			"Your membership has been suspended. Please contact the committee.", domain.NotificationWarning, now)
	default:
		return domain.NewNotification(m.UserID, "Membership Rejected",
			"Your membership application has been rejected.", domain.NotificationError, now)
	}
}

// ListNotifications returns a user's in-app notifications, newest first.
func (s *MemberService) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error) {
	notifications, err := s.repos.Notifications.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return notifications, nil
}
