package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenIssuer はユーザーIDを主張する署名付きベアラートークンを発行・検証する。
// トークンはHS256で署名されたJWTで、サーバー側には状態を持たない。
// 有効性は「現在のシークレットで署名が検証でき、かつ有効期限内」のみで決まる。
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer はTokenIssuerを生成する。
// ttlはトークンの有効期間。ゼロ値の場合は1時間を使用する。
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue は指定ユーザーIDを主張するトークンを発行する。
// subクレームにユーザーID、expに発行時刻+TTLを設定する。
func (t *TokenIssuer) Issue(userID int64) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、主張されたユーザーIDを返す。
// 署名アルゴリズムはHS256に固定し、alg none等のすり替えを拒否する。
func (t *TokenIssuer) Verify(tokenStr string) (int64, error) {
	if len(t.secret) == 0 {
		return 0, errors.New("jwt secret is empty")
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return 0, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}

	return userID, nil
}
