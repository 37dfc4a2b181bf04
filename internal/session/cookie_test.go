package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCookie(t *testing.T) {
	tests := []struct {
		name    string
		cookie  *http.Cookie
		want    string
		wantOK  bool
	}{
		{
			name:   "cookie present",
			cookie: &http.Cookie{Name: CookieName, Value: "abc-123"},
			want:   "abc-123",
			wantOK: true,
		},
		{
			name:   "cookie missing",
			cookie: nil,
			wantOK: false,
		},
		{
			name:   "cookie empty",
			cookie: &http.Cookie{Name: CookieName, Value: "   "},
			wantOK: false,
		},
		{
			name:   "unrelated cookie",
			cookie: &http.Cookie{Name: "other", Value: "abc"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				r.AddCookie(tt.cookie)
			}
			got, ok := ReadCookie(r)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteAndClearCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteCookie(rec, "session-id-1")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "session-id-1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	rec = httptest.NewRecorder()
	ClearCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
