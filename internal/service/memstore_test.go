package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/repository"
)

// memStore is an in-memory ledger. WithinTx holds one lock for the whole unit,
// which gives every transaction the isolation a loan row lock gives in
// PostgreSQL, and restores the previous state when the unit fails.
type memStore struct {
	mu            sync.Mutex
	loans         map[uuid.UUID]domain.Loan
	repayments    map[uuid.UUID]domain.Repayment
	members       map[uuid.UUID]domain.Member
	notifications []domain.Notification
}

func newMemStore() *memStore {
	return &memStore{
		loans:      map[uuid.UUID]domain.Loan{},
		repayments: map[uuid.UUID]domain.Repayment{},
		members:    map[uuid.UUID]domain.Member{},
	}
}

func (s *memStore) repos() repository.Repos {
	return repository.Repos{
		Loans:         memLoans{s},
		Repayments:    memRepayments{s},
		Members:       memMembers{s},
		Notifications: memNotifications{s},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(r repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loans := make(map[uuid.UUID]domain.Loan, len(s.loans))
	for k, v := range s.loans {
		loans[k] = v
	}
	repayments := make(map[uuid.UUID]domain.Repayment, len(s.repayments))
	for k, v := range s.repayments {
		repayments[k] = v
	}
	notifications := append([]domain.Notification(nil), s.notifications...)

	if err := fn(s.repos()); err != nil {
		s.loans, s.repayments, s.notifications = loans, repayments, notifications
		return err
	}
	return nil
}

func (s *memStore) loan(id uuid.UUID) domain.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loans[id]
}

func (s *memStore) repaymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.repayments)
}

func (s *memStore) notificationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notifications)
}

type memLoans struct{ s *memStore }

func (m memLoans) Create(ctx context.Context, loan *domain.Loan) error {
	m.s.loans[loan.ID] = *loan
	return nil
}

func (m memLoans) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	loan, ok := m.s.loans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &loan, nil
}

func (m memLoans) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return m.GetByID(ctx, id)
}

func (m memLoans) GetDetail(ctx context.Context, id uuid.UUID) (*domain.LoanDetail, error) {
	loan, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.LoanDetail{Loan: *loan}, nil
}

func (m memLoans) Update(ctx context.Context, loan *domain.Loan) error {
	if _, ok := m.s.loans[loan.ID]; !ok {
		return sql.ErrNoRows
	}
	m.s.loans[loan.ID] = *loan
	return nil
}

func (m memLoans) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Loan, error) {
	var out []*domain.Loan
	for _, l := range m.s.loans {
		if l.UserID == userID {
			l := l
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memLoans) List(ctx context.Context, filter domain.LoanFilter, now time.Time) ([]*domain.LoanListItem, int, error) {
	var out []*domain.LoanListItem
	for _, l := range m.s.loans {
		if filter.Status == "" || l.Status == filter.Status {
			out = append(out, &domain.LoanListItem{Loan: l, DaysOverdue: l.DaysOverdue(now)})
		}
	}
	return out, len(out), nil
}

func (m memLoans) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Loan, error) {
	var out []*domain.Loan
	for _, l := range m.s.loans {
		if l.Status.AcceptsRepayment() && l.IsOverdue(now) {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

type memRepayments struct{ s *memStore }

func (m memRepayments) Create(ctx context.Context, r *domain.Repayment) error {
	m.s.repayments[r.ID] = *r
	return nil
}

func (m memRepayments) GetByID(ctx context.Context, id uuid.UUID) (*domain.Repayment, error) {
	r, ok := m.s.repayments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (m memRepayments) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Repayment, error) {
	return m.GetByID(ctx, id)
}

func (m memRepayments) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Repayment, error) {
	var out []*domain.Repayment
	for _, r := range m.s.repayments {
		if r.LoanID == loanID {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

func (m memRepayments) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Repayment, error) {
	var out []*domain.Repayment
	for _, r := range m.s.repayments {
		if r.UserID == userID {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

func (m memRepayments) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RepaymentStatus, notes *string) error {
	r, ok := m.s.repayments[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	if notes != nil {
		r.Notes = notes
	}
	m.s.repayments[id] = r
	return nil
}

type memMembers struct{ s *memStore }

func (m memMembers) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	member, ok := m.s.members[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &member, nil
}

func (m memMembers) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	return m.GetByID(ctx, id)
}

func (m memMembers) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Member, error) {
	for _, member := range m.s.members {
		if member.UserID == userID {
			member := member
			return &member, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m memMembers) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MemberStatus) error {
	member, ok := m.s.members[id]
	if !ok {
		return sql.ErrNoRows
	}
	member.Status = status
	m.s.members[id] = member
	return nil
}

type memNotifications struct{ s *memStore }

func (m memNotifications) Create(ctx context.Context, n *domain.Notification) error {
	m.s.notifications = append(m.s.notifications, *n)
	return nil
}

func (m memNotifications) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range m.s.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			n := n
			out = append(out, &n)
		}
	}
	return out, nil
}
