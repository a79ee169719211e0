// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// spanUserIDKey はロギングミドルウェアが仕込むspanUserIDを指すキー。
var spanUserIDKey = contextKey("span_user_id")

// spanUserID はリクエスト完了後のログ出力に認証済みユーザーIDを伝えるホルダー。
// ロギングミドルウェアはチェーンの外側にいるため、内側の認証ミドルウェアが
// r.WithContextで注入した値は観測できない。代わりにロギングミドルウェアが
// 可変ホルダーをコンテキストに置き、認証ミドルウェアが検証成功時に書き込む。
type spanUserID struct {
	id int64
}

// TokenVerifier はベアラートークンの検証に必要なインターフェース。
// auth.TokenIssuerの部分集合として定義する。
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// NewAuthMiddleware はAuthorizationヘッダーのベアラートークンを検証する
// ミドルウェアを返す。
// 検証に成功した場合、主張されたユーザーIDをリクエストコンテキストに注入する。
// トークンの欠落・形式不正・署名不正・期限切れはすべて401を返し、
// 後続のハンドラーは呼び出されない。
func NewAuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. AuthorizationヘッダーからBearerトークンを取得
			token, ok := bearerToken(r)
			if !ok {
				WriteUnauthorizedResponse(w)
				return
			}

			// 2. 署名と有効期限を検証
			userID, err := verifier.Verify(token)
			if err != nil {
				WriteUnauthorizedResponse(w)
				return
			}

			// 3. 認証済みユーザーIDをコンテキストに注入
			ctx := context.WithValue(r.Context(), userIDContextKey, userID)

			// 外側のロギングミドルウェアのspanレコードにもユーザーIDを伝える
			if span, ok := r.Context().Value(spanUserIDKey).(*spanUserID); ok {
				span.id = userID
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken はAuthorizationヘッダーからベアラートークンを取り出す。
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	if !ok || userID == 0 {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
