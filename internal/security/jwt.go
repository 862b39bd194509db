package security // package security issues and verifies access tokens and hashes passwords

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/inventory-service/internal/config"
)

var (
	// ErrMalformed is returned for tokens that cannot be parsed, use another
	// algorithm, fail signature verification or miss required claims.
	ErrMalformed = errors.New("malformed token")
	// ErrExpired is returned once the current time reaches the token's exp.
	ErrExpired = errors.New("token expired")
)

// AccessToken is a signed JWT along with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// TokenService issues and verifies HS256 bearer tokens whose subject is a
// username.  Tokens are stateless: there is no refresh or revocation, so a
// leaked token stays valid until it expires.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenService(cfg *config.AuthConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.AccessTTL,
		now:    time.Now,
		// exp is checked by Verify against the service clock so that a token
		// is already expired at exactly iat+TTL.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// WithClock returns a copy of s that reads the time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now
	return &c
}

// Issue signs a token for subject that expires TTL after now.
func (s *TokenService) Issue(subject string) (AccessToken, error) {
	iat := s.now().UTC().Truncate(time.Second)
	exp := iat.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify checks the signature and expiry of raw and returns its subject.
func (s *TokenService) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := s.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", ErrMalformed
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return "", ErrMalformed
	}
	if !s.now().Before(claims.ExpiresAt.Time) {
		return "", ErrExpired
	}
	return claims.Subject, nil
}
