package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultAccessTTL = 15 * time.Minute

var ErrInvalidToken = errors.New("invalid or expired token")

type AccessClaims struct {
	jwt.RegisteredClaims
}

// Issuer signs access tokens for authenticated users.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

func (i *Issuer) IssueToken(userID uint) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, exp, nil
}

// Guard resolves bearer tokens minted by an Issuer sharing the same secret.
type Guard struct {
	secret []byte
}

func NewGuard(secret []byte) *Guard {
	return &Guard{secret: secret}
}

func (g *Guard) Authenticate(token string) (uint, error) {
	if token == "" {
		return 0, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	claims, err := AccessClaimsFromToken(token, g.secret)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return uint(id), nil
}

func AccessClaimsFromToken(tokenStr string, secret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("token is not valid")
	}
	return &claims, nil
}
