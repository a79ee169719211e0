// Package model はドメインモデルを定義する。
package model

import "time"

// Book はカタログに登録された書籍を表す。
// IDはストア側で採番され、一度割り当てられたら変更されない。
// 書籍は特定ユーザーに所有されない（ユーザーとの外部キー関係を持たない）。
type Book struct {
	ID        int64
	Title     string
	Author    string
	Genre     string
	CreatedAt time.Time
}
