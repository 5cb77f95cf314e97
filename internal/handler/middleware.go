package handler

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/dharmasatrya/trainbooking/internal/log"
	"github.com/dharmasatrya/trainbooking/internal/session"
)

const sessionContextKey = "session"

// SessionMiddleware resolves the browser's session from its signed cookie,
// starting a new anonymous one when the cookie is missing, invalid or expired.
func (h *Handler) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var id string
		if cookie, err := c.Cookie(session.CookieName); err == nil {
			if decoded, err := h.cookies.Decode(cookie.Value); err == nil {
				id = decoded
			}
		}

		s, created, err := h.sessions.GetOrCreate(ctx, id)
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("could not resolve session")
			return errorJSON(c, http.StatusInternalServerError, codeInternal, "session unavailable")
		}
		if created {
			if err := h.writeSessionCookie(c, s.ID); err != nil {
				return errorJSON(c, http.StatusInternalServerError, codeInternal, "session unavailable")
			}
		}

		entry := log.FromContext(ctx).WithFields(logrus.Fields{
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			"session_id": s.ID,
		})
		c.SetRequest(c.Request().WithContext(log.ToContext(ctx, entry)))
		c.Set(sessionContextKey, s)
		c.Response().Before(func() { h.persistAPICookies(c) })

		return next(c)
	}
}

// persistAPICookies stores cookies the booking API rotated during the request,
// so a restart restores the current ones. It runs before the response header
// is written, which lets it re-issue the session cookie with the new expiry.
func (h *Handler) persistAPICookies(c echo.Context) {
	s := currentSession(c)
	if !s.LoggedIn {
		return
	}
	client, ok := h.backend.Lookup(s.ID)
	if !ok {
		return
	}
	cookies := session.FromHTTPCookies(client.Cookies())
	if slices.Equal(cookies, s.Cookies) {
		return
	}

	ctx := c.Request().Context()
	updated, err := h.sessions.SetCookies(ctx, s.ID, cookies)
	if err != nil {
		log.FromContext(ctx).WithError(err).Warn("could not persist API cookies")
		return
	}
	setCurrentSession(c, updated)
	if err := h.writeSessionCookie(c, updated.ID); err != nil {
		log.FromContext(ctx).WithError(err).Warn("could not re-issue session cookie")
	}
}

func (h *Handler) writeSessionCookie(c echo.Context, sessionID string) error {
	token, err := h.cookies.Encode(sessionID)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookies.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// RequireAdmin rejects every caller whose session is not an Admin login.
func (h *Handler) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !currentSession(c).IsAdmin() {
			return errorJSON(c, http.StatusForbidden, codeForbidden, msgForbidden)
		}
		return next(c)
	}
}

func currentSession(c echo.Context) session.Session {
	s, _ := c.Get(sessionContextKey).(session.Session)
	return s
}

func setCurrentSession(c echo.Context, s session.Session) {
	c.Set(sessionContextKey, s)
}
