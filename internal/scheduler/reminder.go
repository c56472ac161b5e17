package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/repository"
	"github.com/segyhp/fundease/internal/service"
)

// reminderKeyTTL outlives the day a reminder key is scoped to.
const reminderKeyTTL = 48 * time.Hour

// OverdueReminder notifies the owners of overdue loans at most once per loan
// per day.
type OverdueReminder struct {
	loans         repository.LoanRepository
	notifications repository.NotificationRepository
	redis         *redis.Client
	publisher     service.NotificationPublisher
	location      *time.Location
	logger        *slog.Logger
	clock         func() time.Time
}

func NewOverdueReminder(
	loans repository.LoanRepository,
	notifications repository.NotificationRepository,
	redis *redis.Client,
	publisher service.NotificationPublisher,
	location *time.Location,
	logger *slog.Logger,
) *OverdueReminder {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OverdueReminder{
		loans:         loans,
		notifications: notifications,
		redis:         redis,
		publisher:     publisher,
		location:      location,
		logger:        logger,
		clock:         time.Now,
	}
}

// Run sends today's reminders and returns how many were sent. A failure on one
// loan is logged and does not stop the others.
func (j *OverdueReminder) Run(ctx context.Context) (int, error) {
	now := j.clock().UTC()

	loans, err := j.loans.ListOverdue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list overdue loans: %w", err)
	}

	day := now.In(j.location).Format(time.DateOnly)
	sent := 0
	for _, loan := range loans {
		key := reminderKey(loan, day)
		fresh, err := j.redis.SetNX(ctx, key, now.Unix(), reminderKeyTTL).Result()
		if err != nil {
			return sent, fmt.Errorf("reserve reminder %s: %w", key, err)
		}
		if !fresh {
			continue
		}

		note := overdueNotification(loan, now)
		if err := j.notifications.Create(ctx, note); err != nil {
			j.logger.ErrorContext(ctx, "storing overdue reminder failed", "loan_id", loan.ID, "error", err)
			if delErr := j.redis.Del(ctx, key).Err(); delErr != nil {
				j.logger.WarnContext(ctx, "releasing reminder key failed", "key", key, "error", delErr)
			}
			continue
		}
		sent++

		if j.publisher != nil {
			if err := j.publisher.Publish(ctx, note); err != nil {
				j.logger.WarnContext(ctx, "publishing overdue reminder failed", "loan_id", loan.ID, "error", err)
			}
		}
	}

	j.logger.InfoContext(ctx, "overdue reminders sent", "overdue", len(loans), "sent", sent, "day", day)
	return sent, nil
}

func reminderKey(loan *domain.Loan, day string) string {
	return "reminder:loan:" + loan.ID.String() + ":" + day
}

func overdueNotification(loan *domain.Loan, now time.Time) *domain.Notification {
	msg := fmt.Sprintf("Your loan of %s is %d days overdue. Remaining balance: %s.",
		loan.Amount.StringFixed(2), loan.DaysOverdue(now), loan.RemainingBalance.StringFixed(2))
	return domain.NewNotification(loan.UserID, "Loan Overdue", msg, domain.NotificationWarning, now)
}
