package handler

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/trainbooking/internal/aggregator"
	"github.com/dharmasatrya/trainbooking/internal/backend"
	"github.com/dharmasatrya/trainbooking/internal/cache"
	"github.com/dharmasatrya/trainbooking/internal/fetch"
	"github.com/dharmasatrya/trainbooking/internal/handoff"
	"github.com/dharmasatrya/trainbooking/internal/log"
	"github.com/dharmasatrya/trainbooking/internal/metrics"
	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/seatmap"
	"github.com/dharmasatrya/trainbooking/internal/session"
)

type Config struct {
	Backend    *backend.Factory
	Sessions   *session.Manager
	Cookies    *session.CookieCodec
	Handoffs   handoff.Store
	Cache      cache.Cache
	Aggregator *aggregator.Aggregator
	Tracker    *fetch.Tracker
	Location   *time.Location
	// CookieSecure marks the session cookie Secure; off only for plain-HTTP development.
	CookieSecure bool
	Now          func() time.Time
}

type Handler struct {
	backend      *backend.Factory
	sessions     *session.Manager
	cookies      *session.CookieCodec
	handoffs     handoff.Store
	cache        cache.Cache
	aggregator   *aggregator.Aggregator
	tracker      *fetch.Tracker
	loc          *time.Location
	cookieSecure bool
	now          func() time.Time

	mu         sync.Mutex
	selections map[string]*seatmap.Selection
}

func New(cfg Config) *Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Tracker == nil {
		cfg.Tracker = fetch.NewTracker()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNoOpCache()
	}
	h := &Handler{
		backend:      cfg.Backend,
		sessions:     cfg.Sessions,
		cookies:      cfg.Cookies,
		handoffs:     cfg.Handoffs,
		cache:        cfg.Cache,
		aggregator:   cfg.Aggregator,
		tracker:      cfg.Tracker,
		loc:          cfg.Location,
		cookieSecure: cfg.CookieSecure,
		now:          cfg.Now,
		selections:   make(map[string]*seatmap.Selection),
	}
	if h.sessions != nil {
		h.sessions.OnExpire(h.forget)
	}
	return h
}

// forget releases everything held for a session that has expired.
func (h *Handler) forget(sessionID string) {
	h.mu.Lock()
	delete(h.selections, sessionID)
	h.mu.Unlock()

	if h.backend != nil {
		h.backend.Forget(sessionID)
	}
}

// Register mounts every route under g, which is expected to be /api/v1.
func (h *Handler) Register(g *echo.Group) {
	g.Use(h.SessionMiddleware)

	g.GET("/schedules", h.Schedules)
	g.GET("/board", h.Board)
	g.GET("/routes/:trainNumber/stations", h.RouteStations)

	g.POST("/seatmap", h.OpenSeatMap)
	g.GET("/seatmap", h.SeatMap)
	g.POST("/cart/seats/:seatId", h.ToggleSeat)
	g.POST("/cart/checkout", h.StartCheckout)

	g.GET("/checkout/:id", h.Checkout)
	g.POST("/checkout/:id/purchase", h.Purchase)

	g.GET("/tickets", h.Tickets)
	g.GET("/tickets/itinerary.pdf", h.Itinerary)
	g.POST("/tickets/:id/return", h.ReturnTicket)
	g.GET("/tickets/:id/document", h.TicketDocument)

	g.POST("/auth/login", h.Login)
	g.POST("/auth/register", h.SignUp)
	g.POST("/auth/logout", h.Logout)
	g.GET("/auth/session", h.Session)

	admin := g.Group("/admin", h.RequireAdmin)
	admin.GET("/patterns", h.SchedulePatterns)
	admin.GET("/patterns/:trainNumber", h.SchedulePattern)
	admin.PUT("/patterns/:trainNumber", h.UpdateSchedulePattern)
	admin.GET("/reports/popularity", h.PopularityReport)
	admin.GET("/reports/revenue", h.RevenueReport)
	admin.GET("/reports/export", h.ExportReport)
}

func (h *Handler) client(c echo.Context) *backend.Client {
	s := currentSession(c)
	return h.backend.For(s.ID, s.HTTPCookies())
}

func (h *Handler) selection(sessionID string) (*seatmap.Selection, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sel, ok := h.selections[sessionID]
	return sel, ok
}

func (h *Handler) setSelection(sessionID string, sel *seatmap.Selection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selections[sessionID] = sel
}

func errorJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	})
}

func validationError(c echo.Context, err error) error {
	return errorJSON(c, http.StatusBadRequest, codeValidation, err.Error())
}

func notice(code, message string) *models.Notice {
	metrics.Advisories.WithLabelValues(code).Inc()
	return &models.Notice{Code: code, Message: message}
}

// backendFailure maps a failed call to the booking API onto a response. The
// API's 401 becomes auth_required; everything else is reported as a bad gateway.
func backendFailure(c echo.Context, err error, code, message string) error {
	log.FromContext(c.Request().Context()).WithError(err).Warn("booking API call failed")
	if errors.Is(err, backend.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   models.NoticeAuthRequired,
			Message: msgAuthRequired,
			Code:    http.StatusUnauthorized,
		})
	}
	return errorJSON(c, http.StatusBadGateway, code, message)
}

func superseded(c echo.Context) error {
	return errorJSON(c, http.StatusConflict, codeSuperseded, msgSuperseded)
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
