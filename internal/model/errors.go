// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, catalog, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodePasswordTooLong    = "PASSWORD_TOO_LONG"
	ErrCodeUsernameTaken      = "USERNAME_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeBookNotFound       = "BOOK_NOT_FOUND"
)

// NewMissingFieldError は必須フィールド欠落エラーを生成する。
func NewMissingFieldError(fields string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingField,
		Message:  fmt.Sprintf("必須フィールドが指定されていません: %s", fields),
		Category: "validation",
		Action:   "リクエストボディに必要なフィールドをすべて指定してください。",
	}
}

// NewInvalidRequestError はリクエストボディ解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewPasswordTooLongError はパスワード長超過エラーを生成する。
func NewPasswordTooLongError(maxBytes int) *APIError {
	return &APIError{
		Code:     ErrCodePasswordTooLong,
		Message:  fmt.Sprintf("パスワードが長すぎます（最大%dバイト）。", maxBytes),
		Category: "validation",
		Action:   "より短いパスワードを指定してください。",
	}
}

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeUsernameTaken,
		Message:  fmt.Sprintf("このユーザー名は既に使用されています: %s", username),
		Category: "validation",
		Action:   "別のユーザー名で登録してください。",
	}
}

// NewInvalidCredentialsError は認証情報不正エラーを生成する。
// ユーザー名不存在とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "認証情報を確認して再度お試しください。",
	}
}

// NewUnauthorizedError はトークン不正・未提示エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてアクセストークンを取得してください。",
	}
}

// NewBookNotFoundError は書籍未検出エラーを生成する。
func NewBookNotFoundError(bookID int64) *APIError {
	return &APIError{
		Code:     ErrCodeBookNotFound,
		Message:  fmt.Sprintf("指定された書籍が見つかりません: %d", bookID),
		Category: "catalog",
		Action:   "書籍IDを確認してください。",
	}
}
