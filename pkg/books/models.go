package books

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int        `bun:",pk,autoincrement" json:"id"`
	Title     string     `bun:",nullzero" json:"title"`
	Author    string     `bun:",nullzero" json:"author"`
	ISBN      *string    `json:"isbn"`
	Rating    *int       `json:"rating"`
	Notes     *string    `json:"notes"`
	DateRead  *time.Time `json:"date_read"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
