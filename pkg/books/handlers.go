package books

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
)

type handler struct {
	bookService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	books, err := h.bookService.ListBooks(ctx, ListBooksOptions{
		Search: params.Q,
		Sort:   params.Sort,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	query := ""
	if params.Q != nil {
		query = *params.Q
	}

	return errors.WithStack(c.HTML(http.StatusOK, listPage(books, query, params.Sort)))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.HTML(http.StatusOK, detailPage(book)))
}

func (h *handler) newForm(c echo.Context) error {
	return errors.WithStack(c.HTML(http.StatusOK, newPage()))
}

func (h *handler) editForm(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.HTML(http.StatusOK, editPage(book)))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := BookForm{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := bookFromForm(&params)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/"))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	// Bind params.
	params := BookForm{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Fetch the book.
	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Full replace of every mutable field; id and created_at stay put.
	replacement, err := bookFromForm(&params)
	if err != nil {
		return errors.WithStack(err)
	}
	book.Title = replacement.Title
	book.Author = replacement.Author
	book.ISBN = replacement.ISBN
	book.Rating = replacement.Rating
	book.Notes = replacement.Notes
	book.DateRead = replacement.DateRead

	opts := UpdateBookOptions{
		Columns: []string{"title", "author", "isbn", "rating", "notes", "date_read"},
	}
	if err := h.bookService.UpdateBook(ctx, book, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/books/"+strconv.Itoa(id)))
}

func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()

	// Deleting is idempotent; an unknown or malformed id still redirects.
	if id, err := strconv.Atoi(c.Param("id")); err == nil {
		if err := h.bookService.DeleteBook(ctx, id); err != nil {
			return errors.WithStack(err)
		}
	}

	return errors.WithStack(c.Redirect(http.StatusSeeOther, "/"))
}

// bookFromForm normalizes a bound form into a Book. The binder has already
// trimmed and validated the shape of each field; this applies the ISBN and
// rating normalizers and rejects a rating that was supplied but didn't
// survive normalization.
func bookFromForm(params *BookForm) (*Book, error) {
	rating := NormalizeRating(params.Rating)
	if params.Rating != "" && rating == nil {
		return nil, errcodes.ValidationError(`"rating" must be a whole number from 1 to 5`)
	}

	book := &Book{
		Title:  params.Title,
		Author: params.Author,
		ISBN:   NormalizeISBN(params.ISBN),
		Rating: rating,
	}

	if params.Notes != "" {
		notes := params.Notes
		book.Notes = &notes
	}
	if params.DateRead != "" {
		read, err := time.Parse("2006-01-02", params.DateRead)
		if err != nil {
			return nil, errcodes.ValidationError(`"date_read" should be in the format of YYYY-MM-DD`)
		}
		book.DateRead = &read
	}

	return book, nil
}
