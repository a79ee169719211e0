package book

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/bookstand/internal/model"
	"github.com/hitoshi/bookstand/internal/repository"
	"github.com/hitoshi/bookstand/internal/security"
)

// --- モック定義 ---

type mockBookRepo struct {
	createFn   func(ctx context.Context, title, author, genre string) (*model.Book, error)
	listFn     func(ctx context.Context) ([]*model.Book, error)
	findByIDFn func(ctx context.Context, id int64) (*model.Book, error)
	deleteFn   func(ctx context.Context, id int64) (bool, error)
}

func (m *mockBookRepo) Create(ctx context.Context, title, author, genre string) (*model.Book, error) {
	if m.createFn != nil {
		return m.createFn(ctx, title, author, genre)
	}
	return &model.Book{ID: 1, Title: title, Author: author, Genre: genre}, nil
}

func (m *mockBookRepo) List(ctx context.Context) ([]*model.Book, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*model.Book{}, nil
}

func (m *mockBookRepo) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockBookRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return false, nil
}

// --- compile-time interface checks ---
var _ repository.BookRepository = (*mockBookRepo)(nil)

// --- Create ---

func TestCreate_SanitizesMetadataBeforeStore(t *testing.T) {
	var gotTitle, gotAuthor, gotGenre string
	repo := &mockBookRepo{
		createFn: func(ctx context.Context, title, author, genre string) (*model.Book, error) {
			gotTitle, gotAuthor, gotGenre = title, author, genre
			return &model.Book{ID: 1, Title: title, Author: author, Genre: genre}, nil
		},
	}

	svc := NewService(repo, security.NewMetadataSanitizer())
	_, err := svc.Create(context.Background(),
		`Dune<script>alert(1)</script>`, "<b>Herbert</b>", "  SciFi  ")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if gotTitle != "Dune" {
		t.Errorf("stored title = %q, want %q", gotTitle, "Dune")
	}
	if gotAuthor != "Herbert" {
		t.Errorf("stored author = %q, want %q", gotAuthor, "Herbert")
	}
	if gotGenre != "SciFi" {
		t.Errorf("stored genre = %q, want %q", gotGenre, "SciFi")
	}
}

func TestCreate_ReturnsAssignedID(t *testing.T) {
	repo := &mockBookRepo{
		createFn: func(ctx context.Context, title, author, genre string) (*model.Book, error) {
			return &model.Book{ID: 5, Title: title, Author: author, Genre: genre}, nil
		},
	}

	svc := NewService(repo, security.NewMetadataSanitizer())
	book, err := svc.Create(context.Background(), "Dune", "Herbert", "SciFi")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if book.ID != 5 {
		t.Errorf("book.ID = %d, want 5", book.ID)
	}
}

func TestCreate_RepoError_Propagates(t *testing.T) {
	repo := &mockBookRepo{
		createFn: func(ctx context.Context, title, author, genre string) (*model.Book, error) {
			return nil, errors.New("insert failed")
		},
	}

	svc := NewService(repo, security.NewMetadataSanitizer())
	if _, err := svc.Create(context.Background(), "Dune", "Herbert", "SciFi"); err == nil {
		t.Fatal("expected error")
	}
}

// --- List ---

func TestList_ReturnsAllBooks(t *testing.T) {
	repo := &mockBookRepo{
		listFn: func(ctx context.Context) ([]*model.Book, error) {
			return []*model.Book{
				{ID: 1, Title: "Dune"},
				{ID: 2, Title: "Foundation"},
			}, nil
		},
	}

	svc := NewService(repo, security.NewMetadataSanitizer())
	books, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("len(books) = %d, want 2", len(books))
	}
	if books[0].ID != 1 || books[1].ID != 2 {
		t.Errorf("unexpected order: %d, %d", books[0].ID, books[1].ID)
	}
}

// --- Get ---

func TestGet_ExistingBook_ReturnsBook(t *testing.T) {
	repo := &mockBookRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Title: "Dune", Author: "Herbert", Genre: "SciFi"}, nil
		},
	}

	svc := NewService(repo, security.NewMetadataSanitizer())
	book, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if book.Title != "Dune" {
		t.Errorf("book.Title = %q, want %q", book.Title, "Dune")
	}
}

func TestGet_UnknownID_ReturnsNotFound(t *testing.T) {
	svc := NewService(&mockBookRepo{}, security.NewMetadataSanitizer())

	_, err := svc.Get(context.Background(), 99)
	assertBookNotFound(t, err)
}

// --- Delete ---

func TestDelete_ExistingBook_Succeeds(t *testing.T) {
	deletedID := int64(0)
	repo := &mockBookRepo{
		deleteFn: func(ctx context.Context, id int64) (bool, error) {
			deletedID = id
			return true, nil
		},
	}

	svc := NewService(repo, security.NewMetadataSanitizer())
	if err := svc.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deletedID != 3 {
		t.Errorf("deleted id = %d, want 3", deletedID)
	}
}

func TestDelete_UnknownID_ReturnsNotFound(t *testing.T) {
	svc := NewService(&mockBookRepo{}, security.NewMetadataSanitizer())

	err := svc.Delete(context.Background(), 99)
	assertBookNotFound(t, err)
}

func assertBookNotFound(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeBookNotFound {
		t.Errorf("expected BOOK_NOT_FOUND, got %v", err)
	}
}
