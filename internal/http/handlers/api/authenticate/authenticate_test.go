package authenticate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-portal/internal/models"
	auth "github.com/magabrotheeeer/subscription-portal/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAuthenticateHandler_ServeHTTP(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	uid := "b7f6e6f0-8f4a-4c8e-9a3c-0f1f54c11111"

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*AuthServiceMock)
		wantStatusCode int
		wantStatus     string
		wantError      string
		wantActive     *bool
		wantUserStatus string
		wantExpiry     *string
	}{
		{
			name: "active expiring subscription",
			body: `{"username":"alice","password":"secret1"}`,
			setupMocks: func(a *AuthServiceMock) {
				a.On("Login", mock.Anything, "alice", "secret1").Return(&models.User{
					UID:          uid,
					Username:     "alice",
					Subscription: models.Expiring(time.Date(2026, 11, 29, 0, 0, 0, 0, time.UTC)),
				}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantActive:     boolPtr(true),
			wantUserStatus: "active",
			wantExpiry:     strPtr("2026-11-29"),
		},
		{
			name: "lifetime subscription",
			body: `{"username":"bob","password":"secret1"}`,
			setupMocks: func(a *AuthServiceMock) {
				a.On("Login", mock.Anything, "bob", "secret1").Return(&models.User{
					UID:          uid,
					Username:     "bob",
					Subscription: models.Lifetime(),
				}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantActive:     boolPtr(true),
			wantUserStatus: "active",
			wantExpiry:     nil,
		},
		{
			name: "expired subscription is forbidden",
			body: `{"username":"carol","password":"secret1"}`,
			setupMocks: func(a *AuthServiceMock) {
				a.On("Login", mock.Anything, "carol", "secret1").Return(&models.User{
					UID:          uid,
					Username:     "carol",
					Subscription: models.Expiring(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
				}, nil).Once()
			},
			wantStatusCode: http.StatusForbidden,
			wantStatus:     "Error",
			wantError:      "subscription inactive or expired",
			wantActive:     boolPtr(false),
			wantUserStatus: "inactive",
			wantExpiry:     strPtr("2026-08-01"),
		},
		{
			name: "no subscription is forbidden",
			body: `{"username":"dave","password":"secret1"}`,
			setupMocks: func(a *AuthServiceMock) {
				a.On("Login", mock.Anything, "dave", "secret1").Return(&models.User{
					UID:          uid,
					Username:     "dave",
					Subscription: models.NoSubscription(),
				}, nil).Once()
			},
			wantStatusCode: http.StatusForbidden,
			wantStatus:     "Error",
			wantError:      "subscription inactive or expired",
			wantActive:     boolPtr(false),
			wantUserStatus: "inactive",
			wantExpiry:     nil,
		},
		{
			name: "invalid credentials",
			body: `{"username":"alice","password":"wrong"}`,
			setupMocks: func(a *AuthServiceMock) {
				a.On("Login", mock.Anything, "alice", "wrong").
					Return(nil, auth.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "invalid username or password",
		},
		{
			name:           "invalid JSON",
			body:           `not json`,
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name:           "missing fields",
			body:           `{"username":"alice"}`,
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "username and password required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			tt.setupMocks(authMock)

			handler := New(newNoopLogger(), authMock)
			handler.now = func() time.Time { return now }

			req := httptest.NewRequest(http.MethodPost, "/api/v1/authenticate", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp struct {
				Status string `json:"status"`
				Error  string `json:"error"`
				Data   *struct {
					User struct {
						Username string  `json:"username"`
						Status   string  `json:"status"`
						Expiry   *string `json:"expiry"`
					} `json:"user"`
					SubscriptionActive bool `json:"subscription_active"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			assert.Equal(t, tt.wantStatus, resp.Status)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp.Error)
			}
			if tt.wantActive != nil {
				require.NotNil(t, resp.Data)
				assert.Equal(t, *tt.wantActive, resp.Data.SubscriptionActive)
				assert.Equal(t, tt.wantUserStatus, resp.Data.User.Status)
				assert.Equal(t, tt.wantExpiry, resp.Data.User.Expiry)
			}

			authMock.AssertExpectations(t)
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
