package books

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/binder"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupTestHandler(t *testing.T) (*handler, *bun.DB, *echo.Echo) {
	t.Helper()

	db := newTestDB(t)
	svc := NewService(db)
	h := &handler{bookService: svc}

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b

	return h, db, e
}

func newFormRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestHandlerList(t *testing.T) {
	h, _, e := setupTestHandler(t)
	ctx := context.Background()

	seedBook(ctx, t, h.bookService, &Book{Title: "The Hobbit", Author: "J.R.R. Tolkien"})
	seedBook(ctx, t, h.bookService, &Book{Title: "Dune", Author: "Frank Herbert"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.list(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Hobbit")
	assert.Contains(t, rec.Body.String(), "Dune")
}

func TestHandlerList_Search(t *testing.T) {
	h, _, e := setupTestHandler(t)
	ctx := context.Background()

	seedBook(ctx, t, h.bookService, &Book{Title: "The Hobbit", Author: "J.R.R. Tolkien"})
	seedBook(ctx, t, h.bookService, &Book{Title: "Dune", Author: "Frank Herbert"})

	req := httptest.NewRequest(http.MethodGet, "/?q=tolkien", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.list(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Hobbit")
	assert.NotContains(t, rec.Body.String(), "Dune")
}

func TestHandlerCreate(t *testing.T) {
	h, _, e := setupTestHandler(t)

	form := url.Values{}
	form.Set("title", "  The Hobbit  ")
	form.Set("author", "J.R.R. Tolkien")
	form.Set("isbn", "978-0-547-92822-7")
	form.Set("rating", "5")
	form.Set("notes", "Loved it.")
	form.Set("date_read", "2024-08-01")

	req := newFormRequest(http.MethodPost, "/books", form)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.create(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	books, err := h.bookService.ListBooks(context.Background(), ListBooksOptions{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	// The binder trims, the handler normalizes.
	assert.Equal(t, "The Hobbit", books[0].Title)
	require.NotNil(t, books[0].ISBN)
	assert.Equal(t, "9780547928227", *books[0].ISBN)
	require.NotNil(t, books[0].Rating)
	assert.Equal(t, 5, *books[0].Rating)
}

func TestHandlerCreate_MissingTitle(t *testing.T) {
	h, _, e := setupTestHandler(t)

	form := url.Values{}
	form.Set("title", "   ")
	form.Set("author", "J.R.R. Tolkien")

	req := newFormRequest(http.MethodPost, "/books", form)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.create(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "validation_error", codeErr.Code)
	assert.Equal(t, http.StatusBadRequest, codeErr.HTTPCode)
	assert.Equal(t, `"title" is required`, codeErr.Message)
}

func TestHandlerCreate_InvalidRating(t *testing.T) {
	h, _, e := setupTestHandler(t)

	form := url.Values{}
	form.Set("title", "The Hobbit")
	form.Set("author", "J.R.R. Tolkien")
	form.Set("rating", "6")

	req := newFormRequest(http.MethodPost, "/books", form)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.create(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "validation_error", codeErr.Code)
	assert.Equal(t, `"rating" must be a whole number from 1 to 5`, codeErr.Message)
}

func TestHandlerCreate_BlankRatingOK(t *testing.T) {
	h, _, e := setupTestHandler(t)

	// A blank rating means unrated; only a present-but-invalid value fails.
	form := url.Values{}
	form.Set("title", "The Hobbit")
	form.Set("author", "J.R.R. Tolkien")
	form.Set("rating", "")

	req := newFormRequest(http.MethodPost, "/books", form)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.create(c)
	require.NoError(t, err)

	books, err := h.bookService.ListBooks(context.Background(), ListBooksOptions{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Nil(t, books[0].Rating)
}

func TestHandlerCreate_InvalidDate(t *testing.T) {
	h, _, e := setupTestHandler(t)

	form := url.Values{}
	form.Set("title", "The Hobbit")
	form.Set("author", "J.R.R. Tolkien")
	form.Set("date_read", "08/01/2024")

	req := newFormRequest(http.MethodPost, "/books", form)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.create(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "validation_error", codeErr.Code)
}

func TestHandlerCreate_DuplicateISBN(t *testing.T) {
	h, _, e := setupTestHandler(t)
	ctx := context.Background()

	seedBook(ctx, t, h.bookService, &Book{Title: "First", Author: "A", ISBN: strptr("9780547928227")})

	form := url.Values{}
	form.Set("title", "Second")
	form.Set("author", "B")
	form.Set("isbn", "978-0-547-92822-7")

	req := newFormRequest(http.MethodPost, "/books", form)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.create(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "conflict", codeErr.Code)
	assert.Equal(t, http.StatusConflict, codeErr.HTTPCode)
}

func TestHandlerRetrieve(t *testing.T) {
	h, _, e := setupTestHandler(t)
	ctx := context.Background()

	book := seedBook(ctx, t, h.bookService, &Book{
		Title:  "The Hobbit",
		Author: "J.R.R. Tolkien",
		Rating: intptr(4),
	})

	req := httptest.NewRequest(http.MethodGet, "/books/"+strconv.Itoa(book.ID), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(book.ID))

	err := h.retrieve(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Hobbit")
	assert.Contains(t, rec.Body.String(), "J.R.R. Tolkien")
}

func TestHandlerRetrieve_NotFound(t *testing.T) {
	h, _, e := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/books/9999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues("9999")

	err := h.retrieve(c)
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestHandlerRetrieve_MalformedID(t *testing.T) {
	h, _, e := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/books/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.retrieve(c)
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestHandlerUpdate(t *testing.T) {
	h, _, e := setupTestHandler(t)
	ctx := context.Background()

	book := seedBook(ctx, t, h.bookService, &Book{
		Title:  "Draft",
		Author: "Someone",
		ISBN:   strptr("9780547928227"),
		Rating: intptr(3),
		Notes:  strptr("old notes"),
	})

	// Fields left out of the form are cleared, not preserved.
	form := url.Values{}
	form.Set("title", "Final")
	form.Set("author", "Someone Else")

	id := strconv.Itoa(book.ID)
	req := newFormRequest(http.MethodPut, "/books/"+id, form)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := h.update(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/books/"+id, rec.Header().Get(echo.HeaderLocation))

	got, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, "Someone Else", got.Author)
	assert.Nil(t, got.ISBN)
	assert.Nil(t, got.Rating)
	assert.Nil(t, got.Notes)
	assert.Equal(t, book.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestHandlerUpdate_NotFound(t *testing.T) {
	h, _, e := setupTestHandler(t)

	form := url.Values{}
	form.Set("title", "Final")
	form.Set("author", "Someone Else")

	req := newFormRequest(http.MethodPut, "/books/9999", form)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues("9999")

	err := h.update(c)
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestHandlerDelete(t *testing.T) {
	h, _, e := setupTestHandler(t)
	ctx := context.Background()

	book := seedBook(ctx, t, h.bookService, &Book{Title: "Gone soon", Author: "A"})

	id := strconv.Itoa(book.ID)
	req := httptest.NewRequest(http.MethodDelete, "/books/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := h.deleteBook(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	_, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestHandlerDelete_Nonexistent(t *testing.T) {
	h, _, e := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/books/9999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/books/:id")
	c.SetParamNames("id")
	c.SetParamValues("9999")

	err := h.deleteBook(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestHandlerNewForm(t *testing.T) {
	h, _, e := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/books/new", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.newForm(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/books"`)
}

func TestHandlerEditForm(t *testing.T) {
	h, _, e := setupTestHandler(t)
	ctx := context.Background()

	book := seedBook(ctx, t, h.bookService, &Book{Title: "The Hobbit", Author: "J.R.R. Tolkien"})

	id := strconv.Itoa(book.ID)
	req := httptest.NewRequest(http.MethodGet, "/books/"+id+"/edit", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/books/:id/edit")
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := h.editForm(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Hobbit")
	assert.Contains(t, rec.Body.String(), `name="_method"`)
}
