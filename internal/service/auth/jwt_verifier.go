package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/config"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
)

// JWTVerifier verifies HMAC-SHA256 signed JWTs carrying an email claim.
type JWTVerifier struct {
	signingKey    []byte
	issuer        string
	audience      string
	tokenLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration
}

type emailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var (
	_ TokenVerifier = (*JWTVerifier)(nil)
	_ TokenIssuer   = (*JWTVerifier)(nil)
)

// NewJWTVerifier creates a verifier from auth configuration.
func NewJWTVerifier(cfg config.AuthConfig) (*JWTVerifier, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	return &JWTVerifier{
		signingKey:    []byte(cfg.JWTSecret),
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		tokenLifetime: time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		timeFunc:      time.Now,
		clockSkew:     2 * time.Minute,
	}, nil
}

// WithTimeFunc returns a copy of v that reads the clock from fn.
func (v *JWTVerifier) WithTimeFunc(fn func() time.Time) *JWTVerifier {
	cp := *v
	cp.timeFunc = fn
	return &cp
}

// Verify implements TokenVerifier.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*domain.Principal, error) {
	log := logger.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerifierUnavailable, err)
	}
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	now := v.timeFunc()
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &emailClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.signingKey, nil
		}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token rejected: expired")
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token rejected: not yet valid")
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token rejected", "error_type", fmt.Sprintf("%T", err), "error", err)
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*emailClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if domain.ValidateEmail(claims.Email) != nil {
		log.Debug("token rejected: missing or invalid email claim")
		return nil, ErrMissingEmail
	}

	principal := &domain.Principal{
		Subject: claims.Subject,
		Email:   domain.NormalizeEmail(claims.Email),
		Claims: map[string]any{
			"iss": claims.Issuer,
			"jti": claims.ID,
		},
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	return principal, nil
}

// IssueToken implements TokenIssuer.
func (v *JWTVerifier) IssueToken(ctx context.Context, subject, email string) (string, error) {
	now := v.timeFunc()
	claims := emailClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.tokenLifetime)),
			ID:        uuid.New().String(),
		},
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign token", "error", err)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}
	return signed, nil
}
