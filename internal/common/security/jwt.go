package security

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"authgate/internal/common"
	"authgate/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimID       = "id"
	ClaimUsername = "username"
	ClaimEmail    = "email"
)

var ErrMissingSecret = errors.New("jwt signing secret is empty")

// TokenAuth issues and verifies HS256 identity tokens with a fixed TTL.
type TokenAuth struct {
	ja     *jwtauth.JWTAuth
	secret []byte
	parser *jwt.Parser
	ttl    time.Duration
}

func NewTokenAuth(secret []byte, ttl time.Duration) (*TokenAuth, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt ttl must be positive, got %s", ttl)
	}
	// Strict decoding rejects signature segments whose trailing padding
	// bits were altered.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
	)
	return &TokenAuth{
		ja:     jwtauth.New("HS256", secret, nil),
		secret: secret,
		parser: parser,
		ttl:    ttl,
	}, nil
}

func (t *TokenAuth) GenerateToken(id model.Identity) (string, error) {
	claims := map[string]interface{}{
		ClaimID:       id.ID,
		ClaimUsername: id.Username,
		ClaimEmail:    id.Email,
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, t.ttl)

	_, tokenString, err := t.ja.Encode(claims)
	return tokenString, err
}

// VerifyRequest takes the first non-empty token returned by findTokenFns and
// verifies it. It returns common.ErrNoToken when no finder yields a token.
func (t *TokenAuth) VerifyRequest(r *http.Request, findTokenFns ...func(r *http.Request) string) (model.Identity, error) {
	var tokenString string
	for _, fn := range findTokenFns {
		if tokenString = fn(r); tokenString != "" {
			break
		}
	}
	if tokenString == "" {
		return model.Identity{}, common.ErrNoToken
	}
	return t.VerifyToken(tokenString)
}

// VerifyToken checks signature and expiry and returns the carried identity.
// Every failure wraps common.ErrUnauthorized.
func (t *TokenAuth) VerifyToken(tokenString string) (model.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := t.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}
	return IdentityFromClaims(claims)
}

// IdentityFromClaims extracts the id, username and email claims.
func IdentityFromClaims(claims jwt.MapClaims) (model.Identity, error) {
	id, err := stringClaim(claims, ClaimID)
	if err != nil {
		return model.Identity{}, err
	}
	username, err := stringClaim(claims, ClaimUsername)
	if err != nil {
		return model.Identity{}, err
	}
	email, err := stringClaim(claims, ClaimEmail)
	if err != nil {
		return model.Identity{}, err
	}
	return model.Identity{ID: id, Username: username, Email: email}, nil
}

func stringClaim(claims jwt.MapClaims, name string) (string, error) {
	v, ok := claims[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s claim is missing or not a string", common.ErrUnauthorized, name)
	}
	return v, nil
}
