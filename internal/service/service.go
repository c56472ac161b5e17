package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/repository"
	customError "github.com/segyhp/fundease/pkg/errors"
	"github.com/segyhp/fundease/pkg/validation"
)

// NotificationPublisher pushes a committed notification to live subscribers.
type NotificationPublisher interface {
	Publish(ctx context.Context, n *domain.Notification) error
}

// Deps carries the collaborators every ledger service needs. Repos is bound to
// the connection pool and serves reads outside a transaction.
type Deps struct {
	UoW       repository.UnitOfWork
	Repos     repository.Repos
	Publisher NotificationPublisher
	Logger    *slog.Logger
	Clock     func() time.Time
}

type base struct {
	uow       repository.UnitOfWork
	repos     repository.Repos
	publisher NotificationPublisher
	logger    *slog.Logger
	clock     func() time.Time
	validate  *validation.Validator
}

// newValidator adds the ledger's payment channel whitelist to the shared
// request validator.
func newValidator() *validation.Validator {
	return validation.New(validation.Rule{
		Tag: "payment_method",
		Valid: func(value string) bool {
			return domain.PaymentMethod(value).Valid()
		},
		Message: "is not a supported payment method",
	})
}

func newBase(d Deps) base {
	b := base{
		uow:       d.UoW,
		repos:     d.Repos,
		publisher: d.Publisher,
		logger:    d.Logger,
		clock:     d.Clock,
		validate:  newValidator(),
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.clock == nil {
		b.clock = time.Now
	}
	return b
}

func (b *base) now() time.Time {
	return b.clock().UTC()
}

// publish hands committed notifications to the publisher. Failures are logged
// and never reach the caller: the rows are already stored.
func (b *base) publish(ctx context.Context, notes ...*domain.Notification) {
	if b.publisher == nil {
		return
	}
	for _, n := range notes {
		if err := b.publisher.Publish(ctx, n); err != nil {
			b.logger.WarnContext(ctx, "publishing notification failed",
				"notification_id", n.ID,
				"user_id", n.UserID,
				"error", err,
			)
		}
	}
}

// lookupError turns a repository read failure into NotFound or Persistence.
func lookupError(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapNotFound(entity, id.String())
	}
	return customError.WrapDatabaseError(err)
}

// activeMember resolves the member record of userID and requires it to be active.
func activeMember(ctx context.Context, members repository.MemberRepository, userID uuid.UUID) (*domain.Member, error) {
	member, err := members.GetByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "Member", userID)
	}
	if !member.IsActive() {
		return nil, customError.WrapValidation("member account is " + string(member.Status) + ", only active members may do this")
	}
	return member, nil
}
