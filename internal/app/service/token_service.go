package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainerror "github.com/0xsj/aegis/internal/domain/error"
)

// TokenService validates bearer tokens issued by the identity provider.
// Signature and expiry validation happen here; the revocation check is a
// separate, mandatory second step in the enforcement middleware.
type TokenService interface {
	// ValidateAccessToken validates a token's signature and registered
	// claims and returns the embedded claims.
	ValidateAccessToken(token string) (*AccessTokenClaims, error)

	// MaxTokenLifetime returns the provider's configured maximum token
	// lifetime. The temporary revocation window must cover it.
	MaxTokenLifetime() time.Duration
}

// AccessTokenClaims contains the claims embedded in an access token.
type AccessTokenClaims struct {
	UserID    uuid.UUID
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenConfig holds configuration for token validation.
type TokenConfig struct {
	Issuer           string
	Audience         string
	SigningKey       []byte
	MaxTokenLifetime time.Duration
}

// tokenService implements TokenService.
type tokenService struct {
	config TokenConfig
	parser *jwt.Parser
}

// NewTokenService creates a new TokenService.
func NewTokenService(config TokenConfig) (TokenService, error) {
	if len(config.SigningKey) == 0 {
		return nil, errors.New("token signing key is required")
	}
	if config.MaxTokenLifetime <= 0 {
		return nil, errors.New("max token lifetime must be positive")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(config.Issuer),
		jwt.WithAudience(config.Audience),
		jwt.WithExpirationRequired(),
	)

	return &tokenService{
		config: config,
		parser: parser,
	}, nil
}

func (s *tokenService) ValidateAccessToken(token string) (*AccessTokenClaims, error) {
	var claims jwt.RegisteredClaims

	parsed, err := s.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.config.SigningKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerror.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domainerror.ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, domainerror.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", domainerror.ErrTokenInvalid)
	}

	result := &AccessTokenClaims{
		UserID:  userID,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}

func (s *tokenService) MaxTokenLifetime() time.Duration {
	return s.config.MaxTokenLifetime
}
