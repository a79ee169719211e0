// Package security はアプリケーションのセキュリティ機能を提供する。
//
// MetadataSanitizerService はクライアントから受け取った書籍メタデータ
// （タイトル・著者・ジャンル）をサニタイズし、保存型XSSからカタログの
// 利用側を保護する。bluemondayの厳格ポリシーで全HTMLタグを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MetadataSanitizerService は書籍メタデータのサニタイズ機能のインターフェースを定義する。
// 書籍の保存前に使用される。
type MetadataSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグを除去し、前後の空白を取り除いた
	// プレーンテキストを返す。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// metadataSanitizer はMetadataSanitizerServiceの実装。
// bluemondayの厳格ポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type metadataSanitizer struct {
	policy *bluemonday.Policy
}

// NewMetadataSanitizer はMetadataSanitizerServiceの新しいインスタンスを生成する。
// 書籍メタデータは自由記述のプレーンテキストであり、HTMLを許可する理由がないため、
// タグを一切許可しないStrictPolicyを使用する。
func NewMetadataSanitizer() *metadataSanitizer {
	return &metadataSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLタグを除去したプレーンテキストを返す。
func (s *metadataSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
