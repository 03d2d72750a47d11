package covers

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
)

var isbnRE = regexp.MustCompile(`^[0-9Xx]+$`)

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="120" height="180" viewBox="0 0 120 180">
  <rect width="120" height="180" fill="#eee" stroke="#ccc"/>
  <text x="60" y="90" text-anchor="middle" font-family="sans-serif" font-size="12" fill="#999">No cover</text>
</svg>`

type handler struct {
	client *Client
}

// placeholder serves the fallback cover for books without an ISBN.
func (h *handler) placeholder(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return errors.WithStack(c.Blob(http.StatusOK, "image/svg+xml", []byte(placeholderSVG)))
}

// proxyISBN handles GET /api/covers/isbn/:isbn. Any 2xx upstream response is
// streamed back verbatim; everything else becomes a JSON error so the page
// never renders a broken image from a half-failed fetch.
func (h *handler) proxyISBN(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	isbn := c.Param("isbn")
	if !isbnRE.MatchString(isbn) {
		return errcodes.NotFound("Cover")
	}

	img, err := h.client.FetchISBN(ctx, isbn)
	if err != nil {
		var e *errcodes.Error
		if errors.As(err, &e) {
			return err
		}
		log.Err(err).Warn("cover fetch failed", logger.Data{"isbn": isbn})
		return errcodes.UpstreamFailure("the cover image service")
	}
	defer img.Body.Close()

	contentType := img.ContentType
	body := io.Reader(img.Body)
	if contentType == "" {
		// Upstream didn't say what it sent; sniff a prefix instead of
		// trusting the URL's extension.
		buf := make([]byte, 512)
		n, rerr := io.ReadFull(img.Body, buf)
		if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
			log.Err(rerr).Warn("cover read failed", logger.Data{"isbn": isbn})
			return errcodes.UpstreamFailure("the cover image service")
		}
		if mtype := mimetype.Detect(buf[:n]); strings.HasPrefix(mtype.String(), "image/") {
			contentType = mtype.String()
		} else {
			contentType = "image/jpeg"
		}
		body = io.MultiReader(bytes.NewReader(buf[:n]), img.Body)
	}

	return errors.WithStack(c.Stream(http.StatusOK, contentType, body))
}
