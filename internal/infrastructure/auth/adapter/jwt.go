package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/auth/port"
)

// JWTVerifier validates HMAC-signed bearer tokens issued by the identity
// service. The token carries the user id in the "user_id" claim.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

var _ port.TokenVerifier = (*JWTVerifier)(nil)

func (v *JWTVerifier) Verify(_ context.Context, token string) (port.Principal, error) {
	if token == "" {
		return port.Principal{}, port.ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil || !parsed.Valid {
		return port.Principal{}, port.ErrInvalidToken
	}

	raw, ok := claims["user_id"].(string)
	if !ok {
		return port.Principal{}, port.ErrInvalidToken
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return port.Principal{}, port.ErrInvalidToken
	}

	return port.Principal{UserID: userID}, nil
}

// IssueToken signs a token for the given user. Only the tests and local
// tooling use this; production tokens come from the identity service.
func (v *JWTVerifier) IssueToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	return token.SignedString(v.secret)
}
