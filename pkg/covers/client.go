package covers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"golang.org/x/time/rate"
)

// Client fetches cover images from the Open Library covers service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

func NewClient(baseURL, userAgent string, rps int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// Image is a streamed cover image. The caller owns Body on success.
type Image struct {
	Body        io.ReadCloser
	ContentType string
}

// FetchISBN fetches the medium-size cover for an ISBN. A non-2xx upstream
// response maps to errcodes.NotFound; transport failures surface as plain
// errors for the handler to classify. No retries and no caching; the request
// is bound to ctx so it cancels when the client disconnects.
func (c *Client) FetchISBN(ctx context.Context, isbn string) (*Image, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	u := fmt.Sprintf("%s/b/isbn/%s-M.jpg", c.baseURL, url.PathEscape(isbn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errcodes.NotFound("Cover")
	}

	return &Image{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
