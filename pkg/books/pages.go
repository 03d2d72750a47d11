package books

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/shelfmark/shelfmark/pkg/covers"
)

const baseTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Shelfmark</title>
  <style>
    body { font-family: sans-serif; margin: 8px; max-width: 720px; }
    a { color: #000; text-decoration: underline; }
    a.item { display: block; text-decoration: none; }
    .item { padding: 12px 0; border-bottom: 1px solid #ccc; }
    .item-title { font-size: 1.1em; font-weight: bold; text-decoration: underline; }
    .item-meta { font-size: 0.9em; color: #666; }
    .nav { margin: 16px 0; }
    .nav-btn { display: inline-block; padding: 12px 16px; margin: 4px; border: 1px solid #000; text-decoration: none; color: #000; }
    .filter { margin-bottom: 12px; }
    .filter-btn { display: inline-block; padding: 8px 12px; margin: 2px; border: 1px solid #ccc; text-decoration: none; }
    .field { margin-bottom: 12px; }
    .field label { display: block; font-weight: bold; margin-bottom: 4px; }
    .field input, .field textarea { display: block; width: 100%%; font-size: 16px; padding: 10px; border: 2px solid #000; box-sizing: border-box; }
    .submit { display: block; width: 100%%; font-size: 18px; padding: 12px; border: 2px solid #000; background: #eee; }
    .cover { max-width: 120px; border: 1px solid #ccc; }
  </style>
</head>
<body>
  %s
</body>
</html>`

// renderPage wraps content in the base template.
func renderPage(content string) string {
	return fmt.Sprintf(baseTemplate, content)
}

func listPage(books []*Book, query, sort string) string {
	var b strings.Builder

	b.WriteString("<h1>My books</h1>")
	b.WriteString(`<div class="nav"><a href="/books/new" class="nav-btn">+ Add a book</a></div>`)
	b.WriteString(searchForm("/", query, sort))
	b.WriteString(sortBar(query, sort))

	if len(books) == 0 {
		b.WriteString(`<p>Nothing here yet.</p>`)
	}
	for _, book := range books {
		b.WriteString(bookItem(book))
	}

	return renderPage(b.String())
}

func detailPage(book *Book) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf(`<img src="%s" alt="" class="cover">`, html.EscapeString(covers.URL(book.ISBN))))
	b.WriteString(fmt.Sprintf("<h1>%s</h1>", html.EscapeString(book.Title)))
	b.WriteString(fmt.Sprintf("<p>by %s</p>", html.EscapeString(book.Author)))

	var meta []string
	if book.Rating != nil {
		meta = append(meta, stars(*book.Rating))
	}
	if book.DateRead != nil {
		meta = append(meta, "read "+book.DateRead.Format("2006-01-02"))
	}
	if book.ISBN != nil {
		meta = append(meta, "ISBN "+html.EscapeString(*book.ISBN))
	}
	if len(meta) > 0 {
		b.WriteString(fmt.Sprintf(`<p class="item-meta">%s</p>`, strings.Join(meta, " · ")))
	}

	if book.Notes != nil && *book.Notes != "" {
		b.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(*book.Notes)))
	}

	id := strconv.Itoa(book.ID)
	b.WriteString(`<div class="nav">`)
	b.WriteString(fmt.Sprintf(`<a href="/books/%s/edit" class="nav-btn">Edit</a>`, id))
	b.WriteString(fmt.Sprintf(`<form action="/books/%s" method="post" style="display: inline;"><input type="hidden" name="_method" value="DELETE"><input type="submit" value="Delete" class="nav-btn"></form>`, id))
	b.WriteString(`<a href="/" class="nav-btn">All books</a>`)
	b.WriteString(`</div>`)

	return renderPage(b.String())
}

func newPage() string {
	var b strings.Builder
	b.WriteString("<h1>Add a book</h1>")
	b.WriteString(bookForm("/books", "", &Book{}))
	b.WriteString(`<div class="nav"><a href="/" class="nav-btn">Cancel</a></div>`)
	return renderPage(b.String())
}

func editPage(book *Book) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h1>Edit %s</h1>", html.EscapeString(book.Title)))
	b.WriteString(bookForm("/books/"+strconv.Itoa(book.ID), "PUT", book))
	b.WriteString(fmt.Sprintf(`<div class="nav"><a href="/books/%d" class="nav-btn">Cancel</a></div>`, book.ID))
	return renderPage(b.String())
}

// bookItem generates an HTML item for the list. The entire row is wrapped in
// a link for easier tapping.
func bookItem(book *Book) string {
	var meta []string
	meta = append(meta, html.EscapeString(book.Author))
	if book.Rating != nil {
		meta = append(meta, stars(*book.Rating))
	}
	if book.DateRead != nil {
		meta = append(meta, "read "+book.DateRead.Format("2006-01-02"))
	}

	return fmt.Sprintf(`<a href="/books/%d" class="item">
  <img src="%s" alt="" style="max-width: 48px; max-height: 72px; float: left; margin-right: 8px;">
  <div class="item-title">%s</div>
  <div class="item-meta">%s</div>
  <div style="clear: both;"></div>
</a>`, book.ID, html.EscapeString(covers.URL(book.ISBN)), html.EscapeString(book.Title), strings.Join(meta, " · "))
}

func stars(rating int) string {
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// searchForm generates the title/author search form, preserving the current
// sort selection.
func searchForm(actionURL, query, sort string) string {
	hidden := ""
	if sort != "" && sort != SortRecent {
		hidden = fmt.Sprintf(`<input type="hidden" name="sort" value="%s">`, html.EscapeString(sort))
	}
	return fmt.Sprintf(`<form action="%s" method="get" style="margin: 16px 0;">
  %s
  <div class="field">
    <input type="text" name="q" value="%s" placeholder="Search title or author">
  </div>
  <input type="submit" value="Search" class="submit">
</form>`, html.EscapeString(actionURL), hidden, html.EscapeString(query))
}

// sortBar generates the sort selector with button-style links, preserving the
// current search query. The current selection is shown in bold without a link.
func sortBar(query, current string) string {
	if current == "" {
		current = SortRecent
	}

	links := []string{
		sortLink(query, SortRecent, current, "Recent"),
		sortLink(query, SortRatingDesc, current, "Top rated"),
		sortLink(query, SortRatingAsc, current, "Lowest rated"),
		sortLink(query, SortTitle, current, "Title"),
	}

	return fmt.Sprintf(`<div class="filter"><b>Sort:</b> %s</div>`, strings.Join(links, " "))
}

func sortLink(query, value, current, label string) string {
	if value == current {
		return fmt.Sprintf(`<span class="filter-btn" style="font-weight: bold; border-color: #000;">%s</span>`, label)
	}

	url := "/?sort=" + value
	if query != "" {
		url += "&q=" + html.EscapeString(query)
	}
	return fmt.Sprintf(`<a href="%s" class="filter-btn">%s</a>`, html.EscapeString(url), label)
}

// bookForm generates the shared create/edit form. A non-empty method is
// carried in a _method field so HTML forms can reach the PUT route.
func bookForm(actionURL, method string, book *Book) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf(`<form action="%s" method="post">`, html.EscapeString(actionURL)))
	if method != "" {
		b.WriteString(fmt.Sprintf(`<input type="hidden" name="_method" value="%s">`, html.EscapeString(method)))
	}

	isbn := ""
	if book.ISBN != nil {
		isbn = *book.ISBN
	}
	rating := ""
	if book.Rating != nil {
		rating = strconv.Itoa(*book.Rating)
	}
	notes := ""
	if book.Notes != nil {
		notes = *book.Notes
	}
	dateRead := ""
	if book.DateRead != nil {
		dateRead = book.DateRead.Format("2006-01-02")
	}

	b.WriteString(formField("title", "Title", "text", book.Title))
	b.WriteString(formField("author", "Author", "text", book.Author))
	b.WriteString(formField("isbn", "ISBN", "text", isbn))
	b.WriteString(formField("rating", "Rating (1-5)", "number", rating))
	b.WriteString(formField("date_read", "Date read", "date", dateRead))
	b.WriteString(fmt.Sprintf(`<div class="field">
  <label for="notes">Notes</label>
  <textarea id="notes" name="notes" rows="5">%s</textarea>
</div>`, html.EscapeString(notes)))
	b.WriteString(`<input type="submit" value="Save" class="submit">`)
	b.WriteString(`</form>`)

	return b.String()
}

func formField(name, label, inputType, value string) string {
	return fmt.Sprintf(`<div class="field">
  <label for="%s">%s</label>
  <input type="%s" id="%s" name="%s" value="%s">
</div>`, name, html.EscapeString(label), inputType, name, name, html.EscapeString(value))
}
