package csrfservice

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid csrf token")

// CSRFService issues and checks signed, expiring CSRF tokens.
type CSRFService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) *CSRFService {
	return &CSRFService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (cs *CSRFService) Issue() (string, error) {
	now := cs.now()

	claims := jwt.StandardClaims{ //nolint:exhaustruct
		Id:        uuid.NewString(),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(cs.ttl).Unix(),
		Subject:   "csrf",
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cs.secret)
	if err != nil {
		return "", fmt.Errorf("sign csrf token error: %w", err)
	}

	return token, nil
}

func (cs *CSRFService) Validate(token string) error {
	claims := new(jwt.StandardClaims)

	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return cs.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !t.Valid || claims.Subject != "csrf" {
		return ErrInvalidToken
	}

	return nil
}
