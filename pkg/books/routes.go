package books

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the book pages and CRUD routes. The PUT and
// DELETE routes are reachable from HTML forms through the server's method
// override middleware.
func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	bookService := NewService(db)

	h := &handler{
		bookService: bookService,
	}

	e.GET("/", h.list)
	e.GET("/books/new", h.newForm)
	e.POST("/books", h.create)
	e.GET("/books/:id", h.retrieve)
	e.GET("/books/:id/edit", h.editForm)
	e.PUT("/books/:id", h.update)
	e.DELETE("/books/:id", h.deleteBook)
}
