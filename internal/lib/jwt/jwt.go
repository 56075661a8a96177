package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"portfolio/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// NewToken выпускает access токен администратора
func NewToken(admin models.Admin, duration time.Duration, secret string) (string, int64, error) {
	now := time.Now()
	exp := now.Add(duration)

	claims := jwt.MapClaims{
		"jti":   uuid.NewString(),
		"sub":   strconv.FormatInt(admin.ID, 10),
		"login": admin.Login,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	return tokenString, exp.Unix(), nil
}

// ParseToken проверяет подпись и срок действия
func ParseToken(tokenString, secret string) (models.TokenMeta, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.TokenMeta{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.TokenMeta{}, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return models.TokenMeta{}, ErrInvalidToken
	}

	adminID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return models.TokenMeta{}, ErrInvalidToken
	}

	login, _ := claims["login"].(string)
	jti, _ := claims["jti"].(string)

	meta := models.TokenMeta{
		ID:      jti,
		AdminID: adminID,
		Login:   login,
	}

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		meta.IssuedAt = iat.Unix()
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		meta.ExpiresAt = exp.Unix()
	}

	return meta, nil
}
