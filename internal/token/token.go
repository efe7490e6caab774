package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Numeric role encoding used inside token claims. The store keeps string
// roles; auth.RoleCode/RoleFromCode translate at the boundary.
const (
	RoleCodeStudent    = 0
	RoleCodeAdmin      = 1
	RoleCodeInstructor = 2
)

var ErrWrongType = errors.New("token has wrong type")

// Claims is the payload of both access and refresh tokens. Role carries the
// numeric encoding (0=student, 1=admin, 2=instructor); Type discriminates the
// two token kinds since they share one signing secret.
type Claims struct {
	ID    string `json:"id"`
	Role  int    `json:"role"`
	Email string `json:"email"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

type Credential struct {
	Token  string    `json:"token"`
	Expire time.Time `json:"expire"`
}

type Pair struct {
	Access  Credential `json:"access"`
	Refresh Credential `json:"refresh"`
}

// Service signs and verifies the session token pair with a single HS256
// secret. The clock is a field so refresh logic is testable without real time.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the time source so expiry behavior is testable without
// real time.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) sign(id string, role int, email, kind string, ttl time.Duration) (Credential, error) {
	now := s.now().UTC()
	expire := now.Add(ttl)
	claims := Claims{
		ID:    id,
		Role:  role,
		Email: email,
		Type:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expire),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Credential{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return Credential{Token: signed, Expire: expire}, nil
}

// Issue mints a fresh access/refresh pair for the identity. Failure means the
// signing itself failed, which is a process-level problem, not a user one.
func (s *Service) Issue(id string, role int, email string) (Pair, error) {
	access, err := s.sign(id, role, email, TypeAccess, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.sign(id, role, email, TypeRefresh, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// Parse verifies the signature and expiry and checks the type discriminator,
// so a refresh token can never be presented where an access token is expected.
func (s *Service) Parse(tokenString, wantType string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != wantType {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrWrongType, claims.Type, wantType)
	}
	return claims, nil
}
