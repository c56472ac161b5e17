package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/mocks"
	customError "github.com/segyhp/fundease/pkg/errors"
)

func TestCreateContribution(t *testing.T) {
	userID := uuid.New()
	ref := "GC-0042"

	validRequest := func() *domain.CreateContributionRequest {
		return &domain.CreateContributionRequest{
			UserID:           userID,
			Amount:           dec("500"),
			PaymentMethod:    domain.PaymentMethodGCash,
			ReferenceNo:      &ref,
			ContributionDate: testNow,
		}
	}

	tests := []struct {
		name        string
		mutate      func(r *domain.CreateContributionRequest)
		member      *domain.Member
		memberErr   error
		createErr   error
		expectedErr error
	}{
		{
			name:   "Success",
			member: activeMemberFor(userID),
		},
		{
			name:        "Failure - zero amount",
			mutate:      func(r *domain.CreateContributionRequest) { r.Amount = dec("0") },
			expectedErr: customError.ErrValidation,
		},
		{
			name:        "Failure - fraction of a cent",
			mutate:      func(r *domain.CreateContributionRequest) { r.Amount = dec("500.001") },
			expectedErr: customError.ErrValidation,
		},
		{
			name:        "Failure - unsupported payment method",
			mutate:      func(r *domain.CreateContributionRequest) { r.PaymentMethod = "cheque" },
			expectedErr: customError.ErrValidation,
		},
		{
			name:        "Failure - missing date",
			mutate:      func(r *domain.CreateContributionRequest) { r.ContributionDate = time.Time{} },
			expectedErr: customError.ErrValidation,
		},
		{
			name:        "Failure - not a member",
			memberErr:   sql.ErrNoRows,
			expectedErr: customError.ErrNotFound,
		},
		{
			name: "Failure - suspended member",
			member: &domain.Member{
				ID:     uuid.New(),
				UserID: userID,
				Status: domain.MemberStatusSuspended,
			},
			expectedErr: customError.ErrValidation,
		},
		{
			name:        "Failure - insert fails",
			member:      activeMemberFor(userID),
			createErr:   errors.New("disk full"),
			expectedErr: customError.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			request := validRequest()
			if tt.mutate != nil {
				tt.mutate(request)
			}

			if tt.member != nil || tt.memberErr != nil {
				store.Members.On("GetByUserID", mock.Anything, userID).Return(tt.member, tt.memberErr)
			}
			if tt.member != nil && tt.member.IsActive() {
				store.Contributions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Contribution")).Return(tt.createErr)
			}

			deps, _ := mockDeps(store, nil)
			contribution, err := NewLedgerService(deps).CreateContribution(context.Background(), request)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, contribution)
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.ContributionStatusPending, contribution.Status)
				assert.Equal(t, tt.member.ID, contribution.MemberID)
				assert.Equal(t, &ref, contribution.ReferenceNo)
				assert.Equal(t, testNow, contribution.CreatedAt)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestListContributions(t *testing.T) {
	from := testNow.AddDate(0, -1, 0)
	to := testNow

	tests := []struct {
		name        string
		filter      domain.ContributionFilter
		expectedErr error
	}{
		{name: "Success - no filter", filter: domain.ContributionFilter{}},
		{name: "Success - full filter", filter: domain.ContributionFilter{
			Status: domain.ContributionStatusConfirmed, PaymentMethod: domain.PaymentMethodMaya, From: &from, To: &to,
		}},
		{name: "Failure - unknown status", filter: domain.ContributionFilter{Status: "lost"}, expectedErr: customError.ErrValidation},
		{name: "Failure - unknown method", filter: domain.ContributionFilter{PaymentMethod: "cheque"}, expectedErr: customError.ErrValidation},
		{name: "Failure - inverted range", filter: domain.ContributionFilter{From: &to, To: &from}, expectedErr: customError.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			if tt.expectedErr == nil {
				store.Contributions.On("List", mock.Anything, tt.filter).Return([]*domain.Contribution{{ID: uuid.New()}}, nil)
			}

			deps, _ := mockDeps(store, nil)
			contributions, err := NewLedgerService(deps).ListContributions(context.Background(), tt.filter)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Len(t, contributions, 1)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestUpdateContributionStatus(t *testing.T) {
	tests := []struct {
		name        string
		from        domain.ContributionStatus
		to          domain.ContributionStatus
		updateErr   error
		expectedErr error
		wantTitle   string
	}{
		{name: "Success - confirm", from: domain.ContributionStatusPending, to: domain.ContributionStatusConfirmed, wantTitle: "Contribution Confirmed"},
		{name: "Success - reject", from: domain.ContributionStatusPending, to: domain.ContributionStatusRejected, wantTitle: "Contribution Rejected"},
		{name: "Failure - confirmed is terminal", from: domain.ContributionStatusConfirmed, to: domain.ContributionStatusRejected, expectedErr: customError.ErrInvalidState},
		{name: "Failure - update fails", from: domain.ContributionStatusPending, to: domain.ContributionStatusConfirmed, updateErr: errors.New("deadlock"), expectedErr: customError.ErrPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			pub := &mocks.MockPublisher{}
			contribution := &domain.Contribution{ID: uuid.New(), UserID: uuid.New(), Amount: dec("1500"), Status: tt.from}

			store.Contributions.On("GetByIDForUpdate", mock.Anything, contribution.ID).Return(contribution, nil)
			if tt.expectedErr == nil || tt.updateErr != nil {
				store.Contributions.On("UpdateStatus", mock.Anything, contribution.ID, tt.to, (*string)(nil)).Return(tt.updateErr)
			}
			if tt.expectedErr == nil {
				store.Notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
					return n.Title == tt.wantTitle && n.UserID == contribution.UserID
				})).Return(nil)
				pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
			}

			deps, uow := mockDeps(store, pub)
			updated, err := NewLedgerService(deps).UpdateContributionStatus(context.Background(), contribution.ID,
				&domain.UpdateContributionStatusRequest{Status: tt.to, ActorID: uuid.New()})

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Equal(t, 1, uow.Rollbacks)
				pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.to, updated.Status)
				assert.Equal(t, 1, uow.Commits)
			}
			store.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestUpdateContributionStatus_NotFound(t *testing.T) {
	store := mocks.NewStore()
	id := uuid.New()
	store.Contributions.On("GetByIDForUpdate", mock.Anything, id).Return(nil, sql.ErrNoRows)

	deps, _ := mockDeps(store, nil)
	_, err := NewLedgerService(deps).UpdateContributionStatus(context.Background(), id,
		&domain.UpdateContributionStatusRequest{Status: domain.ContributionStatusConfirmed})

	assert.ErrorIs(t, err, customError.ErrNotFound)
}

func TestCreateWithdrawal(t *testing.T) {
	userID := uuid.New()
	member := activeMemberFor(userID)

	t.Run("Success", func(t *testing.T) {
		store := mocks.NewStore()
		store.Members.On("GetByUserID", mock.Anything, userID).Return(member, nil)
		store.Withdrawals.On("Create", mock.Anything, mock.AnythingOfType("*domain.Withdrawal")).Return(nil)

		deps, _ := mockDeps(store, nil)
		withdrawal, err := NewLedgerService(deps).CreateWithdrawal(context.Background(), &domain.CreateWithdrawalRequest{
			UserID: userID,
			Amount: dec("2000"),
			Reason: "hospital bill",
			Date:   testNow,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.WithdrawalStatusPending, withdrawal.Status)
		assert.Equal(t, member.ID, withdrawal.MemberID)
		store.AssertExpectations(t)
	})

	t.Run("Failure - missing reason", func(t *testing.T) {
		store := mocks.NewStore()

		deps, _ := mockDeps(store, nil)
		_, err := NewLedgerService(deps).CreateWithdrawal(context.Background(), &domain.CreateWithdrawalRequest{
			UserID: userID,
			Amount: dec("2000"),
			Date:   testNow,
		})

		assert.ErrorIs(t, err, customError.ErrValidation)
		assert.Contains(t, err.Error(), "reason is required")
	})
}

func TestListWithdrawals(t *testing.T) {
	userID := uuid.New()

	for _, filter := range []*uuid.UUID{nil, &userID} {
		store := mocks.NewStore()
		store.Withdrawals.On("List", mock.Anything, filter).Return([]*domain.Withdrawal{}, nil)

		deps, _ := mockDeps(store, nil)
		withdrawals, err := NewLedgerService(deps).ListWithdrawals(context.Background(), filter)

		require.NoError(t, err)
		assert.Empty(t, withdrawals)
		store.AssertExpectations(t)
	}
}

func TestUpdateWithdrawalStatus(t *testing.T) {
	tests := []struct {
		name        string
		from        domain.WithdrawalStatus
		to          domain.WithdrawalStatus
		expectedErr error
		wantTitle   string
	}{
		{name: "Success - approve", from: domain.WithdrawalStatusPending, to: domain.WithdrawalStatusApproved, wantTitle: "Withdrawal Approved"},
		{name: "Success - reject", from: domain.WithdrawalStatusPending, to: domain.WithdrawalStatusRejected, wantTitle: "Withdrawal Rejected"},
		{name: "Failure - approved is terminal", from: domain.WithdrawalStatusApproved, to: domain.WithdrawalStatusRejected, expectedErr: customError.ErrInvalidState},
		{name: "Failure - unknown status", from: domain.WithdrawalStatusPending, to: "paid", expectedErr: customError.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewStore()
			pub := &mocks.MockPublisher{}
			note := "released from petty cash"
			withdrawal := &domain.Withdrawal{ID: uuid.New(), UserID: uuid.New(), Amount: dec("2000"), Status: tt.from}

			if tt.expectedErr != customError.ErrValidation {
				store.Withdrawals.On("GetByIDForUpdate", mock.Anything, withdrawal.ID).Return(withdrawal, nil)
			}
			if tt.expectedErr == nil {
				store.Withdrawals.On("UpdateStatus", mock.Anything, withdrawal.ID, tt.to, &note).Return(nil)
				store.Notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
					return n.Title == tt.wantTitle
				})).Return(nil)
				pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("redis down"))
			}

			deps, _ := mockDeps(store, pub)
			updated, err := NewLedgerService(deps).UpdateWithdrawalStatus(context.Background(), withdrawal.ID,
				&domain.UpdateWithdrawalStatusRequest{Status: tt.to, Notes: &note})

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err, "publish failures are not returned")
				assert.Equal(t, tt.to, updated.Status)
				assert.Equal(t, &note, updated.Notes)
			}
			store.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}
