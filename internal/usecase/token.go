package usecase

import (
	"errors"
	"strconv"
	"time"

	"evmarket/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// accesstokenの有効期限
const AccessTokenTTL = 15 * time.Minute

var ErrInvalidToken = errors.New("invalid token")

// アクセストークンのclaims（sub=ユーザーID, role, tv=token_version）
type AccessClaims struct {
	Role         string `json:"role"`
	TokenVersion int    `json:"tv"`
	jwt.RegisteredClaims
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(user model.User, now time.Time) (token string, expiresAt time.Time, err error)
}

type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: AccessTokenTTL}
}

func (i *JWTIssuer) Issue(user model.User, now time.Time) (string, time.Time, error) {
	exp := now.Add(i.ttl)
	claims := AccessClaims{
		Role:         string(user.Role),
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccessToken は署名・期限を検証してユーザーID/ロール/tvを返す。
func ParseAccessToken(secret string, raw string) (int64, model.Role, int, error) {
	var claims AccessClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, "", 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", 0, ErrInvalidToken
	}
	role, ok := model.ParseRole(claims.Role)
	if !ok || claims.TokenVersion < 0 {
		return 0, "", 0, ErrInvalidToken
	}
	return userID, role, claims.TokenVersion, nil
}
