package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/trainbooking/internal/backend"
	"github.com/dharmasatrya/trainbooking/internal/log"
	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/session"
)

type AuthResponse struct {
	models.SessionResponse
	Notice *models.Notice `json:"notice,omitempty"`
}

func sessionResponse(s session.Session) models.SessionResponse {
	return models.SessionResponse{
		LoggedIn: s.LoggedIn,
		FullName: s.FullName,
		Role:     s.Role,
		IsAdmin:  s.IsAdmin(),
	}
}

// authFailure reports a rejected login or registration with the API's own
// message when it sent one.
func authFailure(c echo.Context, err error, code string) error {
	log.FromContext(c.Request().Context()).WithError(err).Info("authentication rejected")
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return errorJSON(c, http.StatusBadGateway, codeBackendError, err.Error())
	}
	status := http.StatusUnauthorized
	if code == codeRegisterFailed {
		status = http.StatusBadRequest
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		status = http.StatusBadGateway
	}
	return errorJSON(c, status, code, apiErr.Message)
}

// completeLogin records the user and the API's auth cookies on the session
// and re-issues the session cookie, whose expiry the login has extended.
func (h *Handler) completeLogin(c echo.Context, client *backend.Client, user models.UserInfo) (session.Session, error) {
	s, err := h.sessions.Login(c.Request().Context(), currentSession(c).ID, user, session.FromHTTPCookies(client.Cookies()))
	if err != nil {
		return session.Session{}, err
	}
	setCurrentSession(c, s)
	if err := h.writeSessionCookie(c, s.ID); err != nil {
		return session.Session{}, err
	}
	return s, nil
}

func (h *Handler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "Failed to parse request body: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	client := h.client(c)
	user, err := client.Login(c.Request().Context(), req)
	if err != nil {
		return authFailure(c, err, codeLoginFailed)
	}

	s, err := h.completeLogin(c, client, user)
	if err != nil {
		return err
	}
	log.FromContext(c.Request().Context()).WithField("role", s.Role).Info("user logged in")
	return c.JSON(http.StatusOK, AuthResponse{SessionResponse: sessionResponse(s)})
}

// SignUp registers a new account. The API signs the new user in right away.
func (h *Handler) SignUp(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, codeInvalidRequest, "Failed to parse request body: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	client := h.client(c)
	user, err := client.Register(c.Request().Context(), req)
	if err != nil {
		return authFailure(c, err, codeRegisterFailed)
	}
	if user.FullName == "" {
		user.FullName = req.FullName
	}

	s, err := h.completeLogin(c, client, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, AuthResponse{
		SessionResponse: sessionResponse(s),
		Notice:          notice("registered", msgRegistered),
	})
}

// Logout clears the session locally first; a failing remote logout is only logged.
func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	id := currentSession(c).ID
	client := h.client(c)

	s, err := h.sessions.Logout(ctx, id)
	if err != nil {
		return err
	}
	setCurrentSession(c, s)
	if err := h.writeSessionCookie(c, s.ID); err != nil {
		return err
	}

	if err := client.Logout(ctx); err != nil {
		log.FromContext(ctx).WithError(err).Warn("remote logout failed")
	}
	h.backend.Forget(id)

	return c.JSON(http.StatusOK, sessionResponse(s))
}

func (h *Handler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionResponse(currentSession(c)))
}
