package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bookstand/internal/model"
)

// PostgresBookRepo はPostgreSQLを使用した書籍リポジトリ。
type PostgresBookRepo struct {
	db *sql.DB
}

// NewPostgresBookRepo はPostgresBookRepoを生成する。
func NewPostgresBookRepo(db *sql.DB) *PostgresBookRepo {
	return &PostgresBookRepo{db: db}
}

// Create は書籍を作成し、採番されたIDを含むBookを返す。
func (r *PostgresBookRepo) Create(ctx context.Context, title, author, genre string) (*model.Book, error) {
	book := &model.Book{
		Title:  title,
		Author: author,
		Genre:  genre,
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO books (title, author, genre)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		title, author, genre,
	).Scan(&book.ID, &book.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}

	return book, nil
}

// List は全書籍を登録順（ID昇順）で返す。書籍が存在しない場合は空スライスを返す。
func (r *PostgresBookRepo) List(ctx context.Context) ([]*model.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, author, genre, created_at FROM books ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := []*model.Book{}
	for rows.Next() {
		book := &model.Book{}
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Genre, &book.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

// FindByID は指定IDの書籍を取得する。見つからない場合はnilを返す。
func (r *PostgresBookRepo) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	book := &model.Book{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, author, genre, created_at FROM books WHERE id = $1`,
		id,
	).Scan(&book.ID, &book.Title, &book.Author, &book.Genre, &book.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find book by ID: %w", err)
	}

	return book, nil
}

// Delete は指定IDの書籍を削除する。
// 削除された場合はtrue、該当レコードが存在しなかった場合はfalseを返す。
// 存在しないIDに対する削除はストアを変更しない（リトライしても同じ結果になる）。
func (r *PostgresBookRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM books WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ BookRepository = (*PostgresBookRepo)(nil)
