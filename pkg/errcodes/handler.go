package errcodes

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Handle is an Echo error handler. API routes (anything under /api) receive a
// JSON envelope; everything else is a rendered error page with a link back to
// where the user came from. Any generic error is treated as an internal
// server error.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}

	httpCode, code, msg := h.resolve(err)

	// Internal server errors
	if httpCode == http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error")
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		payload := map[string]interface{}{
			"error": map[string]interface{}{
				"code":        code,
				"message":     msg,
				"status_code": httpCode,
			},
		}
		if err := c.JSON(httpCode, payload); err != nil {
			logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler json error")
		}
		return
	}

	if err := c.HTML(httpCode, errorPage(httpCode, msg)); err != nil {
		logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler html error")
	}
}

func (h *Handler) resolve(err error) (int, string, string) {
	code := ""
	msg := ""
	httpCode := http.StatusInternalServerError

	// Echo errors
	var he *echo.HTTPError
	if ok := errors.As(err, &he); ok {
		httpCode = he.Code
		if s, sok := he.Message.(string); sok {
			msg = s
			code = strcase.ToSnake(s)
		}
	}

	// Custom errors
	var e *Error
	if ok := errors.As(err, &e); ok {
		httpCode = e.HTTPCode
		code = e.Code
		msg = e.Message
	}

	// Internal server errors that aren't Echo errors or custom errors
	if httpCode == http.StatusInternalServerError && code != "upstream_failure" {
		code = "internal_server_error"
		msg = "Something went wrong on our end."
	}

	return httpCode, code, msg
}

const errorPageTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%d — Shelfmark</title>
  <style>
    body { font-family: sans-serif; margin: 8px; max-width: 640px; }
    .error { padding: 16px; border: 2px solid #000; margin: 16px 0; }
    .nav-btn { display: inline-block; padding: 12px 16px; margin: 4px 0; border: 1px solid #000; text-decoration: none; color: #000; }
  </style>
</head>
<body>
  <h1>%d %s</h1>
  <div class="error">%s</div>
  <a href="javascript:history.back()" class="nav-btn">&larr; Go back</a>
  <a href="/" class="nav-btn">All books</a>
</body>
</html>`

func errorPage(httpCode int, msg string) string {
	return fmt.Sprintf(errorPageTemplate, httpCode, httpCode, html.EscapeString(http.StatusText(httpCode)), html.EscapeString(msg))
}
