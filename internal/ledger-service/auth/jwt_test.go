package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerify(t *testing.T) {
	j := NewJWT("s3cret", time.Hour)
	tok, err := j.Issue("secret1alice")
	require.NoError(t, err)

	caller, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "secret1alice", caller)

	_, err = NewJWT("other", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = j.Issue("")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestVerifyExpired(t *testing.T) {
	j := NewJWT("s3cret", time.Minute)
	j.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := j.Issue("secret1alice")
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	j := NewJWT("s3cret", time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "secret1alice", Issuer: issuer,
	}}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = j.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	j := NewJWT("s3cret", time.Hour)
	var seen string
	h := j.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = CallerFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"missing bearer token","code":"unauthenticated"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := j.Issue("secret1admin")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "secret1admin", seen)
}
