package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/frahmantamala/maintenance-management/internal"
)

// Claims represents JWT token claims
type Claims struct {
	UserID   int64    `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenGeneratorAPI signs and decodes session tokens.
type TokenGeneratorAPI interface {
	GenerateAccessToken(u *User) (string, *Claims, error)
	GenerateRefreshToken() (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	ParseIgnoringExpiry(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	Now      func() time.Time
}

func NewJWTTokenGenerator(secret, issuer, audience string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		Issuer:   issuer,
		Audience: audience,
		TTL:      ttl,
		Now:      time.Now,
	}
}

// GenerateAccessToken signs a token carrying the principal's identity and roles
// under a fresh token id.
func (j *JWTTokenGenerator) GenerateAccessToken(u *User) (string, *Claims, error) {
	now := j.Now()
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}

	claims := &Claims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    j.Issuer,
			Audience:  jwt.ClaimStrings{j.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, claims, nil
}

// GenerateRefreshToken returns an opaque identifier with no claims.
func (j *JWTTokenGenerator) GenerateRefreshToken() (string, error) {
	return GenerateRandomToken()
}

// ValidateToken checks signature, expiry, issuer and audience.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.Issuer),
		jwt.WithAudience(j.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken.WithCause(err)
	}
	return claims, nil
}

// ParseIgnoringExpiry checks signature, issuer and audience but accepts expired
// tokens. It backs refresh.
func (j *JWTTokenGenerator) ParseIgnoringExpiry(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, apperrors.ErrInvalidToken.WithCause(err)
	}
	if claims.Issuer != j.Issuer {
		return nil, apperrors.ErrInvalidToken.WithCause(fmt.Errorf("unexpected issuer %q", claims.Issuer))
	}
	if !slices.Contains(claims.Audience, j.Audience) {
		return nil, apperrors.ErrInvalidToken.WithCause(fmt.Errorf("unexpected audience %v", claims.Audience))
	}
	if claims.ID == "" || claims.UserID == 0 {
		return nil, apperrors.ErrInvalidToken.WithCause(errors.New("missing token id or subject"))
	}
	return claims, nil
}

func (j *JWTTokenGenerator) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return j.Secret, nil
}

// GenerateRandomToken generates a cryptographically secure random token
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
