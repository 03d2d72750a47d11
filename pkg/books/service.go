package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/uptrace/bun"
)

const (
	SortRecent     = "recent"
	SortRatingDesc = "rating_desc"
	SortRatingAsc  = "rating_asc"
	SortTitle      = "title"
)

type RetrieveBookOptions struct {
	ID   *int
	ISBN *string
}

type ListBooksOptions struct {
	Search *string
	Sort   string
}

type UpdateBookOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBook(ctx context.Context, book *Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isISBNConflict(err) {
			return errcodes.Conflict("A book with this ISBN already exists.")
		}
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*Book, error) {
	book := &Book{}

	q := svc.db.
		NewSelect().
		Model(book)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.ISBN != nil {
		q = q.Where("b.isbn = ?", *opts.ISBN)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*Book, error) {
	books := []*Book{}

	q := svc.db.
		NewSelect().
		Model(&books)

	if opts.Search != nil {
		if search := strings.TrimSpace(*opts.Search); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			q = q.Where("(LOWER(b.title) LIKE ? OR LOWER(b.author) LIKE ?)", pattern, pattern)
		}
	}

	// Unread and unrated books always sort last within their key.
	switch opts.Sort {
	case SortTitle:
		q = q.OrderExpr("b.title COLLATE NOCASE ASC")
	case SortRatingDesc:
		q = q.OrderExpr("b.rating IS NULL, b.rating DESC, b.date_read IS NULL, b.date_read DESC")
	case SortRatingAsc:
		q = q.OrderExpr("b.rating IS NULL, b.rating ASC, b.date_read IS NULL, b.date_read DESC")
	default:
		// SortRecent is the default; unknown keys fall back to it.
		q = q.OrderExpr("b.date_read IS NULL, b.date_read DESC, b.created_at DESC")
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

func (svc *Service) UpdateBook(ctx context.Context, book *Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	now := time.Now()
	book.UpdatedAt = now
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(book).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if isISBNConflict(err) {
			return errcodes.Conflict("A book with this ISBN already exists.")
		}
		return errors.WithStack(err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Book")
	}

	return nil
}

// DeleteBook removes a book unconditionally. Deleting an id that doesn't
// exist is not an error.
func (svc *Service) DeleteBook(ctx context.Context, id int) error {
	_, err := svc.db.
		NewDelete().
		Model((*Book)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}

// isISBNConflict reports whether err is the uniqueness violation on
// books.isbn. Both SQLite drivers behind sqliteshim report the failed
// constraint by name, so this is the one place that inspects driver errors;
// everything above it branches on errcodes.
func isISBNConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: books.isbn")
}
