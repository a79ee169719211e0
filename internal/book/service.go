// Package book は書籍カタログのドメインロジックを提供する。
package book

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/bookstand/internal/model"
	"github.com/hitoshi/bookstand/internal/repository"
	"github.com/hitoshi/bookstand/internal/security"
)

// Service は書籍カタログのサービス層。
// メタデータは保存前にサニタイズし、保存型XSSを防ぐ。
type Service struct {
	bookRepo  repository.BookRepository
	sanitizer security.MetadataSanitizerService
}

// NewService はServiceを生成する。
func NewService(bookRepo repository.BookRepository, sanitizer security.MetadataSanitizerService) *Service {
	return &Service{
		bookRepo:  bookRepo,
		sanitizer: sanitizer,
	}
}

// Create は書籍を登録し、採番されたIDを含むBookを返す。
// タイトル・著者・ジャンルはサニタイズしてから保存する。
func (s *Service) Create(ctx context.Context, title, author, genre string) (*model.Book, error) {
	if s.sanitizer != nil {
		title = s.sanitizer.Sanitize(title)
		author = s.sanitizer.Sanitize(author)
		genre = s.sanitizer.Sanitize(genre)
	}

	book, err := s.bookRepo.Create(ctx, title, author, genre)
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	slog.Info("book created",
		slog.Int64("book_id", book.ID),
		slog.String("title", book.Title),
	)
	return book, nil
}

// List は全書籍を登録順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Book, error) {
	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// Get は指定IDの書籍を返す。見つからない場合はBOOK_NOT_FOUNDエラーを返す。
func (s *Service) Get(ctx context.Context, id int64) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	if book == nil {
		return nil, model.NewBookNotFoundError(id)
	}
	return book, nil
}

// Delete は指定IDの書籍を削除する。見つからない場合はBOOK_NOT_FOUNDエラーを返す。
// 存在しないIDに対する削除はストアを変更しない。
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.bookRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if !deleted {
		return model.NewBookNotFoundError(id)
	}

	slog.Info("book deleted",
		slog.Int64("book_id", id),
	)
	return nil
}
