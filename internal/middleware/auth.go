package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
)

// TokenAuth verifies access tokens issued by the app's Supabase project:
// HS256 JWTs signed with the project secret, user id in "sub".
type TokenAuth struct {
	Secret []byte
	logger *zap.Logger
}

func NewTokenAuth(secret string, logger *zap.Logger) *TokenAuth {
	return &TokenAuth{Secret: []byte(secret), logger: logger}
}

type accessClaims struct {
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verify parses and validates a raw token and returns the user id it carries.
func (a *TokenAuth) Verify(tokenStr string) (uuid.UUID, error) {
	if tokenStr == "" {
		return uuid.Nil, ErrMissingCredential
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.Secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidCredential
	}

	subject := claims.Subject
	if subject == "" {
		subject = claims.UserID
	}
	userID, err := uuid.Parse(subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidCredential)
	}
	return userID, nil
}

// Resolve applies the per-request identity policy. When requireIdentity is
// true a missing header yields ErrMissingCredential and a bad token
// ErrInvalidCredential. Otherwise any failure degrades to uuid.Nil with a
// nil error.
func (a *TokenAuth) Resolve(requireIdentity bool, authorization string) (uuid.UUID, error) {
	token := bearerToken(authorization)

	if token == "" {
		if requireIdentity {
			return uuid.Nil, ErrMissingCredential
		}
		return uuid.Nil, nil
	}

	userID, err := a.Verify(token)
	if err != nil {
		if requireIdentity {
			a.logger.Info("authentication failed", zap.Error(err))
			return uuid.Nil, err
		}
		a.logger.Debug("optional authentication failed, continuing without identity", zap.Error(err))
		return uuid.Nil, nil
	}
	return userID, nil
}

// bearerToken strips a leading "Bearer " (any case). A header without the
// scheme is taken as the raw token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	if len(header) >= 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
