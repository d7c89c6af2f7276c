package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingStoreID   = errors.New("missing store_id in claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

// Claims represents custom JWT claims carried by storefront tokens.
// Every token is scoped to a single store; handlers derive the tenant
// from the claim, never from request parameters.
type Claims struct {
	jwt.RegisteredClaims
	StoreID string `json:"store_id"`
	UserID  string `json:"user_id"`
	Email   string `json:"email,omitempty"`
}

// Token represents an issued token and its expiry
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"` // Bearer
}

// JWTService handles JWT token operations
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.TokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	StoreID uuid.UUID
	UserID  uuid.UUID
	Email   string
}

// GenerateToken issues a signed HS256 token scoped to a store
func (s *JWTService) GenerateToken(input GenerateTokenInput) (*Token, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.UserID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		StoreID: input.StoreID.String(),
		UserID:  input.UserID.String(),
		Email:   input.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Token{
		Value:     signed,
		ExpiresAt: expiresAt,
		TokenType: "Bearer",
	}, nil
}

// ValidateToken validates a token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.StoreID == "" {
		return nil, ErrMissingStoreID
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}

	return claims, nil
}

// StoreUUID parses the store_id claim
func (c *Claims) StoreUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.StoreID)
	if err != nil {
		return uuid.Nil, ErrMissingStoreID
	}
	return id, nil
}

// UserUUID parses the user_id claim
func (c *Claims) UserUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, ErrMissingUserID
	}
	return id, nil
}
