// Package auth autentica o chamador das rotas de comando via JWT HS256.
// O claim "sub" é o endereço do chamador repassado ao ledger.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken       = errors.New("missing bearer token")
	ErrInvalidTokenFormat = errors.New("invalid authorization header")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingSubject     = errors.New("token has no subject")
)

const issuer = "bet-ledger"

type Claims struct {
	jwt.RegisteredClaims
}

type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue gera um token de acesso para o endereço
func (j *JWT) Issue(address string) (string, error) {
	if address == "" {
		return "", ErrMissingSubject
	}
	now := j.now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   address,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}}
	if j.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// Verify valida assinatura, validade e issuer e devolve o endereço do chamador
func (j *JWT) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}

type ctxKey struct{}

// WithCaller devolve um contexto carregando o endereço autenticado
func WithCaller(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, ctxKey{}, address)
}

// CallerFrom devolve o endereço autenticado colocado pelo Middleware
func CallerFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKey{}).(string)
	return v, ok && v != ""
}

// Middleware exige "Authorization: Bearer <token>" e injeta o chamador no contexto
func (j *JWT) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearer(r.Header.Get("Authorization"))
		if err == nil {
			var caller string
			caller, err = j.Verify(token)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("WWW-Authenticate", `Bearer realm="ledger"`)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error(), "code": "unauthenticated"})
	})
}

func bearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidTokenFormat
	}
	return strings.TrimSpace(parts[1]), nil
}
