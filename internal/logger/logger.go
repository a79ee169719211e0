package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup はJSON構造化ログ出力のslog.Loggerを生成して返す。
// serviceNameが空でない場合、全レコードにservice属性を付与する。
// オブザーバビリティ基盤でのサービス識別ラベルとして使用する。
func Setup(w io.Writer, serviceName string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(handler)
	if serviceName != "" {
		logger = logger.With(slog.String("service", serviceName))
	}
	return logger
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定する。
// writerがnilの場合はos.Stdoutに出力する。
func SetupDefault(w io.Writer, serviceName string) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w, serviceName)
	slog.SetDefault(logger)
}
