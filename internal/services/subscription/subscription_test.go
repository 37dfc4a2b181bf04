package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-portal/internal/models"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error {
	args := m.Called(ctx, userUID, sub)
	return args.Error(0)
}

func newTestService(repo *UserRepoMock, now time.Time) *SubscriptionService {
	svc := NewSubscriptionService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return now }
	return svc
}

func TestSubscriptionService_Purchase(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		planCode   string
		setupMocks func(r *UserRepoMock)
		wantKind   models.SubscriptionKind
		wantExpiry *time.Time
		wantErr    error
	}{
		{
			name:     "three months plan",
			planCode: "3",
			setupMocks: func(r *UserRepoMock) {
				wantExpiry := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
				r.On("UpdateSubscription", mock.Anything, "uid-1",
					mock.MatchedBy(func(sub models.Subscription) bool {
						return sub.Kind == models.KindExpiring &&
							sub.Expiry != nil && sub.Expiry.Equal(wantExpiry)
					})).Return(nil).Once()
			},
			wantKind: models.KindExpiring,
			wantExpiry: func() *time.Time {
				d := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
				return &d
			}(),
		},
		{
			name:     "one month plan",
			planCode: "1",
			setupMocks: func(r *UserRepoMock) {
				wantExpiry := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
				r.On("UpdateSubscription", mock.Anything, "uid-1",
					mock.MatchedBy(func(sub models.Subscription) bool {
						return sub.Kind == models.KindExpiring &&
							sub.Expiry != nil && sub.Expiry.Equal(wantExpiry)
					})).Return(nil).Once()
			},
			wantKind: models.KindExpiring,
		},
		{
			name:     "lifetime plan clears expiry",
			planCode: "lifetime",
			setupMocks: func(r *UserRepoMock) {
				r.On("UpdateSubscription", mock.Anything, "uid-1",
					mock.MatchedBy(func(sub models.Subscription) bool {
						return sub.Kind == models.KindLifetime && sub.Expiry == nil
					})).Return(nil).Once()
			},
			wantKind: models.KindLifetime,
		},
		{
			name:       "unknown plan code touches nothing",
			planCode:   "0",
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    models.ErrUnknownPlan,
		},
		{
			name:     "repository error",
			planCode: "2",
			setupMocks: func(r *UserRepoMock) {
				r.On("UpdateSubscription", mock.Anything, "uid-1", mock.Anything).
					Return(errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc := newTestService(repo, now)

			sub, err := svc.Purchase(context.Background(), "uid-1", tt.planCode)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, models.ErrUnknownPlan) {
					assert.ErrorIs(t, err, models.ErrUnknownPlan)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantKind, sub.Kind)
				if tt.wantExpiry != nil {
					require.NotNil(t, sub.Expiry)
					assert.True(t, sub.Expiry.Equal(*tt.wantExpiry))
				}
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Entitled(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := newTestService(new(UserRepoMock), now)

	assert.True(t, svc.Entitled(models.Lifetime()))
	assert.False(t, svc.Entitled(models.NoSubscription()))

	past := models.Expiring(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, svc.Entitled(past), "expired subscription must not grant downloads")
}
