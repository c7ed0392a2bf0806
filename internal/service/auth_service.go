package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/edufin/finboard-backend/internal/config"
	"github.com/edufin/finboard-backend/internal/model"
	"github.com/edufin/finboard-backend/internal/policy"
)

// ErrInvalidCredentials is returned for a wrong username/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims extends JWT standard claims with the dashboard account's identity
// and visibility scope.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int         `json:"user_id"`
	Username string      `json:"username"`
	Role     policy.Role `json:"role"`
	CampusID string      `json:"campus_id,omitempty"`
	ClassIDs []string    `json:"class_ids,omitempty"`
}

// Subject converts the claims into a policy subject.
func (c *Claims) Subject() policy.Subject {
	return policy.Subject{
		Role:     c.Role,
		CampusID: c.CampusID,
		ClassIDs: c.ClassIDs,
	}
}

// AuthService handles password hashing, JWT issuance/validation and token
// revocation. Logout revokes the token's JTI in Redis for its remaining
// lifetime; there are no refresh tokens.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateToken creates a signed JWT for the user.
func (s *AuthService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		CampusID: user.CampusID,
		ClassIDs: user.ClassIDs,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RevokeToken marks the token's JTI revoked until the token would have
// expired anyway.
func (s *AuthService) RevokeToken(ctx context.Context, claims *Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	key := config.CacheKey.RevokedTokenKey(claims.ID)
	return s.rdb.Set(ctx, key, "1", ttl).Err()
}

// IsTokenRevoked reports whether the JTI was revoked by a logout.
func (s *AuthService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	key := config.CacheKey.RevokedTokenKey(jti)
	_, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return true, nil
}
