package books

type ListBooksQuery struct {
	Sort string  `query:"sort" json:"sort,omitempty" default:"recent"`
	Q    *string `query:"q" json:"q,omitempty" validate:"omitempty,max=100"`
}

// BookForm is the write payload for both create and update. Rating stays a
// raw string so the handler can distinguish a blank field from an invalid
// one after normalization.
type BookForm struct {
	Title    string `form:"title" json:"title" mod:"trim" validate:"required,max=300"`
	Author   string `form:"author" json:"author" mod:"trim" validate:"required,max=300"`
	ISBN     string `form:"isbn" json:"isbn,omitempty" mod:"trim" validate:"omitempty,max=50"`
	Rating   string `form:"rating" json:"rating,omitempty" mod:"trim"`
	Notes    string `form:"notes" json:"notes,omitempty" validate:"omitempty,max=10000"`
	DateRead string `form:"date_read" json:"date_read,omitempty" mod:"trim" validate:"omitempty,date"`
}
