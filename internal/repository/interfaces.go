// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/bookstand/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成し、採番されたIDを含むUserを返す。
	// ユーザー名の一意性はusers.usernameのUNIQUE制約で保証され、
	// 重複時はmodel.APIError（USERNAME_TAKEN）を返す。
	// 事前の存在チェックは行わない。競合時の強制ポイントは制約のみとする。
	Create(ctx context.Context, username, passwordHash string) (*model.User, error)

	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// BookRepository は書籍データの永続化インターフェース。
type BookRepository interface {
	// Create は書籍を作成し、採番されたIDを含むBookを返す。
	Create(ctx context.Context, title, author, genre string) (*model.Book, error)

	// List は全書籍を登録順（ID昇順）で返す。
	List(ctx context.Context) ([]*model.Book, error)

	// FindByID は指定IDの書籍を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Book, error)

	// Delete は指定IDの書籍を削除する。
	// 削除された場合はtrue、該当レコードが存在しなかった場合はfalseを返す。
	Delete(ctx context.Context, id int64) (bool, error)
}
