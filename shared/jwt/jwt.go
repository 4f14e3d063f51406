package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/itchan-dev/bloghub/shared/domain"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/itchan-dev/bloghub/shared/logger"
)

type JwtService interface {
	NewToken(user domain.User) (token string, expiresAt time.Time, err error)
	DecodeToken(jwtStr string) (*Claims, error)
}

// Claims carries the user id in "sub" and the user's roles.
type Claims struct {
	Roles []domain.RoleName `json:"roles"`
	jwt.RegisteredClaims
}

// Actor converts the claims to the identity used by services.
func (c *Claims) Actor() (*domain.Actor, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, errors.Unauthorized("Invalid access token")
	}
	return &domain.Actor{Id: id, Roles: c.Roles}, nil
}

type Jwt struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

func (j *Jwt) NewToken(user domain.User) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)
	claims := Claims{
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.Id, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		logger.Log.Error("failed to sign token", "user_id", user.Id, "error", err)
		return "", time.Time{}, errors.Internal("Can't create token", err)
	}

	return tokenString, expiresAt, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(jwtStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		logger.Log.Debug("token rejected", "error", err)
		return nil, errors.Unauthorized("Invalid access token")
	}
	if !token.Valid {
		return nil, errors.Unauthorized("Invalid access token")
	}

	return claims, nil
}
