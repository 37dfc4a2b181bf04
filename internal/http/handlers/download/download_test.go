package download

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-portal/internal/models"
	"github.com/magabrotheeeer/subscription-portal/internal/session"
)

type UserProviderMock struct {
	mock.Mock
}

func (m *UserProviderMock) CurrentUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func writeArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "software-client")
	require.NoError(t, os.WriteFile(path, []byte("client binary"), 0o644))
	return path
}

func TestDownloadHandler_Start(t *testing.T) {
	uid := "b7f6e6f0-8f4a-4c8e-9a3c-0f1f54c11111"
	maker := jwt.NewMaker("test-secret", 15*time.Minute)

	t.Run("anonymous redirected to login", func(t *testing.T) {
		handler := New(newNoopLogger(), new(UserProviderMock), maker, writeArtifact(t))

		req := httptest.NewRequest(http.MethodGet, "/download", nil)
		rec := httptest.NewRecorder()
		handler.Start(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("entitled user gets signed link", func(t *testing.T) {
		users := new(UserProviderMock)
		users.On("CurrentUser", mock.Anything, uid).Return(&models.User{
			UID:          uid,
			Username:     "alice",
			Subscription: models.Lifetime(),
		}, nil).Once()

		handler := New(newNoopLogger(), users, maker, writeArtifact(t))

		req := httptest.NewRequest(http.MethodGet, "/download", nil)
		ctx := context.WithValue(req.Context(), middlewarectx.SessionData, &session.Data{UserUID: uid, Username: "alice"})
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		handler.Start(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "/download/file?token=")
		users.AssertExpectations(t)
	})

	t.Run("expired subscription is denied", func(t *testing.T) {
		users := new(UserProviderMock)
		users.On("CurrentUser", mock.Anything, uid).Return(&models.User{
			UID:          uid,
			Username:     "alice",
			Subscription: models.Expiring(time.Now().UTC().AddDate(0, 0, -2)),
		}, nil).Once()

		handler := New(newNoopLogger(), users, maker, writeArtifact(t))

		req := httptest.NewRequest(http.MethodGet, "/download", nil)
		ctx := context.WithValue(req.Context(), middlewarectx.SessionData, &session.Data{UserUID: uid, Username: "alice"})
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		handler.Start(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		users.AssertExpectations(t)
	})
}

func TestDownloadHandler_ServeFile(t *testing.T) {
	uid := "b7f6e6f0-8f4a-4c8e-9a3c-0f1f54c11111"
	maker := jwt.NewMaker("test-secret", 15*time.Minute)

	t.Run("valid token serves artifact", func(t *testing.T) {
		users := new(UserProviderMock)
		users.On("CurrentUser", mock.Anything, uid).Return(&models.User{
			UID:          uid,
			Username:     "alice",
			Subscription: models.Lifetime(),
		}, nil).Once()

		token, err := maker.GenerateToken("alice", uid)
		require.NoError(t, err)

		handler := New(newNoopLogger(), users, maker, writeArtifact(t))

		req := httptest.NewRequest(http.MethodGet, "/download/file?token="+token, nil)
		rec := httptest.NewRecorder()
		handler.ServeFile(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "client binary", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		users.AssertExpectations(t)
	})

	t.Run("missing token", func(t *testing.T) {
		handler := New(newNoopLogger(), new(UserProviderMock), maker, writeArtifact(t))

		req := httptest.NewRequest(http.MethodGet, "/download/file", nil)
		rec := httptest.NewRecorder()
		handler.ServeFile(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		otherMaker := jwt.NewMaker("other-secret", 15*time.Minute)
		token, err := otherMaker.GenerateToken("alice", uid)
		require.NoError(t, err)

		handler := New(newNoopLogger(), new(UserProviderMock), maker, writeArtifact(t))

		req := httptest.NewRequest(http.MethodGet, "/download/file?token="+token, nil)
		rec := httptest.NewRecorder()
		handler.ServeFile(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("subscription lapsed after token was issued", func(t *testing.T) {
		users := new(UserProviderMock)
		users.On("CurrentUser", mock.Anything, uid).Return(&models.User{
			UID:          uid,
			Username:     "alice",
			Subscription: models.Expiring(time.Now().UTC().AddDate(0, 0, -2)),
		}, nil).Once()

		token, err := maker.GenerateToken("alice", uid)
		require.NoError(t, err)

		handler := New(newNoopLogger(), users, maker, writeArtifact(t))

		req := httptest.NewRequest(http.MethodGet, "/download/file?token="+token, nil)
		rec := httptest.NewRecorder()
		handler.ServeFile(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		users.AssertExpectations(t)
	})
}
