package purchase

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
	"github.com/magabrotheeeer/subscription-portal/internal/session"
)

type SubscriptionServiceMock struct {
	mock.Mock
}

func (m *SubscriptionServiceMock) Purchase(ctx context.Context, userUID, planCode string) (models.Subscription, error) {
	args := m.Called(ctx, userUID, planCode)
	return args.Get(0).(models.Subscription), args.Error(1)
}

type SessionStoreMock struct {
	mock.Mock
}

func (m *SessionStoreMock) Update(ctx context.Context, id string, data session.Data) error {
	args := m.Called(ctx, id, data)
	return args.Error(0)
}

type EventPublisherMock struct {
	mock.Mock
}

func (m *EventPublisherMock) PurchaseCompleted(username, planCode string, sub models.Subscription) {
	m.Called(username, planCode, sub)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func postPurchase(handler *Handler, form url.Values, data *session.Data, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/purchase", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ctx := req.Context()
	if data != nil {
		ctx = context.WithValue(ctx, middlewarectx.SessionData, data)
		ctx = context.WithValue(ctx, middlewarectx.SessionID, sessionID)
	}
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPurchaseHandler_ServeHTTP(t *testing.T) {
	uid := "b7f6e6f0-8f4a-4c8e-9a3c-0f1f54c11111"
	expiryDate := time.Date(2026, 11, 29, 0, 0, 0, 0, time.UTC)
	newSub := models.Expiring(expiryDate)

	t.Run("requires session", func(t *testing.T) {
		handler := New(newNoopLogger(), new(SubscriptionServiceMock), new(SessionStoreMock), nil)

		rec := postPurchase(handler, url.Values{"subscription_type": {"3"}}, nil, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "You must be logged in to make a purchase")
	})

	t.Run("successful purchase updates session snapshot", func(t *testing.T) {
		subs := new(SubscriptionServiceMock)
		sessions := new(SessionStoreMock)
		events := new(EventPublisherMock)

		subs.On("Purchase", mock.Anything, uid, "3").Return(newSub, nil).Once()
		sessions.On("Update", mock.Anything, "sess-1", session.Data{
			UserUID:      uid,
			Username:     "alice",
			Subscription: newSub,
		}).Return(nil).Once()
		events.On("PurchaseCompleted", "alice", "3", newSub).Once()

		handler := New(newNoopLogger(), subs, sessions, events)
		handler.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }

		data := &session.Data{UserUID: uid, Username: "alice", Subscription: models.NoSubscription()}
		rec := postPurchase(handler, url.Values{"subscription_type": {"3"}}, data, "sess-1")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Purchase successful! Your subscription has been updated.")
		assert.Contains(t, rec.Body.String(), "ACTIVE")
		assert.Contains(t, rec.Body.String(), "November 29, 2026")

		subs.AssertExpectations(t)
		sessions.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("unknown plan code", func(t *testing.T) {
		subs := new(SubscriptionServiceMock)
		subs.On("Purchase", mock.Anything, uid, "12").
			Return(models.Subscription{}, models.ErrUnknownPlan).Once()

		handler := New(newNoopLogger(), subs, new(SessionStoreMock), nil)

		data := &session.Data{UserUID: uid, Username: "alice", Subscription: models.NoSubscription()}
		rec := postPurchase(handler, url.Values{"subscription_type": {"12"}}, data, "sess-1")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Unknown subscription type")
		subs.AssertExpectations(t)
	})

	t.Run("session update failure does not fail the purchase", func(t *testing.T) {
		subs := new(SubscriptionServiceMock)
		sessions := new(SessionStoreMock)

		subs.On("Purchase", mock.Anything, uid, "lifetime").Return(models.Lifetime(), nil).Once()
		sessions.On("Update", mock.Anything, "sess-1", mock.AnythingOfType("session.Data")).
			Return(assert.AnError).Once()

		handler := New(newNoopLogger(), subs, sessions, nil)

		data := &session.Data{UserUID: uid, Username: "alice", Subscription: models.NoSubscription()}
		rec := postPurchase(handler, url.Values{"subscription_type": {"lifetime"}}, data, "sess-1")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Purchase successful! Your subscription has been updated.")
		assert.Contains(t, rec.Body.String(), "Never (Lifetime)")

		subs.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})
}
