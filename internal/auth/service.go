package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/bookstand/internal/model"
	"github.com/hitoshi/bookstand/internal/repository"
)

// Service はユーザー登録・ログインのビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	issuer   *TokenIssuer
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, issuer *TokenIssuer) *Service {
	return &Service{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

// Register は新規ユーザーを登録する。
// パスワードをハッシュ化してからストアに挿入する。平文がストア層に渡ることはない。
// ユーザー名の一意性はストアのUNIQUE制約で強制され、重複時はUSERNAME_TAKENエラーが返る。
func (s *Service) Register(ctx context.Context, username, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		// 長さ超過などの検証エラーはAPIErrorのまま呼び出し側に返す
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			return err
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, username, hash)
	if err != nil {
		return err
	}

	slog.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", username),
	)
	return nil
}

// Login は認証情報を検証し、アクセストークンを発行する。
// ユーザー名不存在とパスワード不一致は同一のINVALID_CREDENTIALSエラーとして返し、
// どちらが原因かを呼び出し側に漏らさない。
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil || !VerifyPassword(user.PasswordHash, password) {
		return "", model.NewInvalidCredentialsError()
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in",
		slog.Int64("user_id", user.ID),
	)
	return token, nil
}
