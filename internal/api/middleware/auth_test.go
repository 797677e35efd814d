package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"authgate/internal/common"
	"authgate/internal/common/security"
	"authgate/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "guard-secret"

var alice = model.Identity{ID: "u-1", Username: "alice", Email: "a@x.com"}

func newGuard(t *testing.T) (http.Handler, *security.TokenAuth, *observer.ObservedLogs, *int) {
	t.Helper()
	tokens, err := security.NewTokenAuth([]byte(testSecret), time.Hour)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	calls := 0
	h := Authenticator(tokens, zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		common.RespondWithJSON(w, http.StatusOK, id)
	}))
	return h, tokens, logs, &calls
}

func issue(t *testing.T, tokens *security.TokenAuth) string {
	t.Helper()
	tok, err := tokens.GenerateToken(alice)
	require.NoError(t, err)
	return tok
}

func serve(h http.Handler, mutate func(r *http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/home", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body common.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestAuthenticator_BearerHeader(t *testing.T) {
	h, tokens, _, calls := newGuard(t)
	tok := issue(t, tokens)

	rec := serve(h, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) })
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Identity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, alice, got)
	assert.Equal(t, 1, *calls)
}

func TestAuthenticator_Cookie(t *testing.T) {
	h, tokens, _, _ := newGuard(t)
	tok := issue(t, tokens)

	rec := serve(h, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tok}) })
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticator_HeaderTakesPrecedence(t *testing.T) {
	h, tokens, _, calls := newGuard(t)
	tok := issue(t, tokens)

	rec := serve(h, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tok)
		r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "garbage"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
		r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tok})
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1, *calls)
}

func TestAuthenticator_NoToken(t *testing.T) {
	h, _, logs, calls := newGuard(t)

	for _, mutate := range []func(r *http.Request){
		nil,
		func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcjpwYXNz") },
		func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "session", Value: "x"}) },
	} {
		rec := serve(h, mutate)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, common.MsgNoToken, decodeMessage(t, rec))
	}
	assert.Zero(t, *calls)
	assert.Zero(t, logs.Len())
}

func TestAuthenticator_InvalidTokens(t *testing.T) {
	h, tokens, logs, calls := newGuard(t)
	valid := issue(t, tokens)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": alice.ID, "username": alice.Username, "email": alice.Email,
		"iat": time.Now().Add(-48 * time.Hour).Unix(),
		"exp": time.Now().Add(-24 * time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	otherSecret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": alice.ID, "username": alice.Username, "email": alice.Email,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("not-the-secret"))
	require.NoError(t, err)

	noIdentity, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "someone",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	cases := map[string]string{
		"expired":      expired,
		"other secret": otherSecret,
		"no identity":  noIdentity,
		"tampered":     tampered,
		"malformed":    "not.a.token",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(h, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) })
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, common.MsgInvalidToken, decodeMessage(t, rec))
		})
	}

	assert.Zero(t, *calls)
	assert.Equal(t, len(cases), logs.FilterMessage("token rejected").Len())
}

func TestAuthenticator_EverySignatureByteFlipped(t *testing.T) {
	h, tokens, _, calls := newGuard(t)
	valid := issue(t, tokens)

	parts := strings.Split(valid, ".")
	sig := []byte(parts[2])
	for i := range sig {
		flipped := append([]byte(nil), sig...)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		tok := parts[0] + "." + parts[1] + "." + string(flipped)

		rec := serve(h, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) })
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "position %d", i)
		assert.Equal(t, common.MsgInvalidToken, decodeMessage(t, rec), "position %d", i)
	}
	assert.Zero(t, *calls)
}

func TestIdentityFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFromContext(req.Context())
	assert.False(t, ok)

	ctx := WithIdentity(req.Context(), alice)
	got, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, alice, got)
}
