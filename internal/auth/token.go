package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/H0M10/NovaGuardianBackend/internal/config"
)

// Verification failures. ErrTokenExpired is reported separately so the HTTP
// boundary can tell the frontend to re-login rather than show a generic
// auth error.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Principal is the authenticated identity derived from a verified token.
// One per request; discarded after the response.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}

// tokenData is the nested claims block. The JSON keys (userId, email, rol)
// are fixed: tokens already issued to the web panel carry this exact shape
// and must keep verifying during migration.
type tokenData struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"rol"`
}

type tokenClaims struct {
	Data tokenData `json:"data"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens. It is the sole
// authority on identity assertions; verification is a pure function of
// (token, now, configuration).
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokenService creates a TokenService from configuration.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.Secret),
		ttl:      time.Duration(cfg.ExpirationSeconds) * time.Second,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Tests use this to step past expiry.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue builds and signs a session token for the given identity.
// expiry = issued-at + TTL, always.
func (s *TokenService) Issue(userID int64, email, role string) (string, error) {
	issuedAt := s.now()
	claims := tokenClaims{
		Data: tokenData{
			UserID: userID,
			Email:  email,
			Role:   role,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify decodes and checks the token: signature, signing method, issuer,
// audience and expiry. Returns ErrTokenExpired when only the expiry failed,
// ErrTokenInvalid for every other defect.
func (s *TokenService) Verify(tokenString string) (*Principal, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return &Principal{
		UserID: claims.Data.UserID,
		Email:  claims.Data.Email,
		Role:   claims.Data.Role,
	}, nil
}
