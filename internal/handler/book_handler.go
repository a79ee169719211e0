package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bookstand/internal/middleware"
	"github.com/hitoshi/bookstand/internal/model"
)

// BookServiceInterface は書籍ハンドラーが必要とするサービスインターフェース。
type BookServiceInterface interface {
	// Create は書籍を登録し、採番されたIDを含むBookを返す。
	Create(ctx context.Context, title, author, genre string) (*model.Book, error)
	// List は全書籍を登録順で返す。
	List(ctx context.Context) ([]*model.Book, error)
	// Get は指定IDの書籍を返す。見つからない場合はAPIErrorを返す。
	Get(ctx context.Context, id int64) (*model.Book, error)
	// Delete は指定IDの書籍を削除する。見つからない場合はAPIErrorを返す。
	Delete(ctx context.Context, id int64) error
}

// BookHandler は書籍カタログのHTTPハンドラー。
type BookHandler struct {
	service BookServiceInterface
}

// NewBookHandler はBookHandlerを生成する。
func NewBookHandler(service BookServiceInterface) *BookHandler {
	return &BookHandler{
		service: service,
	}
}

// createBookRequest は書籍登録リクエストのボディ。
type createBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// bookResponse は書籍情報のAPIレスポンス。
type bookResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// createBookResponse は書籍登録成功のレスポンス。
type createBookResponse struct {
	Message string       `json:"message"`
	Book    bookResponse `json:"book"`
}

// messageResponse はメッセージのみのレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// ListBooks は全書籍を返す。
// GET /books
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]bookResponse, 0, len(books))
	for _, book := range books {
		resp = append(resp, toBookResponse(book))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetBook は書籍詳細を返す。
// GET /books/{id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookIDParam(r)
	if !ok {
		// 数値でないIDは存在しないIDと同様に扱い、ストアには触れない
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewBookNotFoundError(0))
		return
	}

	book, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBookResponse(book))
}

// CreateBook は書籍を登録する。
// POST /books
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	// フィールド検証はストアに触れる前に行う
	if req.Title == "" || req.Author == "" || req.Genre == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("title, author, genre"))
		return
	}

	book, err := h.service.Create(r.Context(), req.Title, req.Author, req.Genre)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createBookResponse{
		Message: "書籍を登録しました。",
		Book:    toBookResponse(book),
	})
}

// DeleteBook は書籍を削除する。
// DELETE /books/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookIDParam(r)
	if !ok {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewBookNotFoundError(0))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messageResponse{
		Message: "書籍を削除しました。",
	})
}

// --- ヘルパー関数 ---

// bookIDParam はURLパラメータから書籍IDを取り出す。
func bookIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// toBookResponse はmodel.BookからAPIレスポンスに変換する。
func toBookResponse(book *model.Book) bookResponse {
	return bookResponse{
		ID:     book.ID,
		Title:  book.Title,
		Author: book.Author,
		Genre:  book.Genre,
	}
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// レスポンスの形はmiddleware.WriteErrorResponseの統一フォーマットに従う。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
// ユーザー名重複は既存クライアントとの互換のため400を返す。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeMissingField:
		return http.StatusBadRequest
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodePasswordTooLong:
		return http.StatusBadRequest
	case model.ErrCodeUsernameTaken:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeBookNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
