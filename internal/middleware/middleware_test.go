package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dan9191/bank-ledger/internal/auth"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["msg"]
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	id := uuid.New()
	token, err := tokens.Issue(id, "jane@example.com", "jane")
	require.NoError(t, err)
	expired, err := auth.NewTokenIssuer("secret", -time.Minute).Issue(id, "jane@example.com", "jane")
	require.NoError(t, err)

	var caller *auth.Claims
	protected := AuthMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantMsg    string
	}{
		{"missing", "", "", http.StatusUnauthorized, "Token required"},
		{"garbage", TokenHeader, "not-a-token", http.StatusUnauthorized, "Token expired"},
		{"expired", TokenHeader, expired, http.StatusUnauthorized, "Token expired"},
		{"wrong scheme", "Authorization", "Basic " + token, http.StatusUnauthorized, "Token required"},
		{"token header", TokenHeader, token, http.StatusNoContent, ""},
		{"bearer", "Authorization", "Bearer " + token, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller = nil
			req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeMsg(t, rec))
				assert.Nil(t, caller)
				return
			}
			require.NotNil(t, caller)
			assert.Equal(t, id, caller.ID)
			assert.Equal(t, "jane", caller.Username)
		})
	}
}

func TestRecoverer(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := Recoverer(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeMsg(t, rec))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "/users", hook.LastEntry().Data["path"])
}

func TestRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "http request", entry.Message)
	assert.Equal(t, http.MethodPost, entry.Data["method"])
	assert.Equal(t, "/auth/login", entry.Data["path"])
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
}
