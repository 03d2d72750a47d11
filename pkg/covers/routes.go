package covers

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/config"
)

// RegisterRoutes registers the cover proxy endpoint.
func RegisterRoutes(e *echo.Echo, cfg *config.Config) {
	client := NewClient(cfg.CoversBaseURL, cfg.CoversUserAgent, cfg.CoversRequestsPerSecond)

	h := &handler{
		client: client,
	}

	e.GET("/api/covers/isbn/:isbn", h.proxyISBN)
	e.GET(PlaceholderURL, h.placeholder)
}
