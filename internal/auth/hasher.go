// Package auth はパスワード認証、トークン発行・検証を提供する。
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/bookstand/internal/model"
)

// bcryptに渡せるパスワード長の上限（72バイト）を超える入力は拒否する。
const maxPasswordLength = 72

// HashPassword は平文パスワードをbcryptハッシュに変換する。
// 同一パスワードでもソルトにより毎回異なるハッシュを生成する。
// 検証はVerifyPasswordで行うこと。
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	// 上限超過はクライアント入力の検証エラーとして返し、400として処理される
	if len(password) > maxPasswordLength {
		return "", model.NewPasswordTooLongError(maxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword は平文パスワードが保存済みハッシュと一致するかを返す。
// 不正なハッシュ形式の場合もfalseを返し、詳細は漏らさない。
func VerifyPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
