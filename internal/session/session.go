package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/samber/lo"
)

const (
	RoleAdmin = "Admin"

	// DefaultTTL is how long a session survives without being written.
	DefaultTTL = 12 * time.Hour
)

var ErrNotFound = errors.New("session not found")

type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is the service's view of one browser: who is logged in and the
// cookies the booking API issued for it.
type Session struct {
	ID        string    `json:"id"`
	LoggedIn  bool      `json:"loggedIn"`
	FullName  string    `json:"fullName,omitempty"`
	Role      string    `json:"role,omitempty"`
	Cookies   []Cookie  `json:"cookies,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) IsAdmin() bool {
	return s.LoggedIn && s.Role == RoleAdmin
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s Session) HTTPCookies() []*http.Cookie {
	return lo.Map(s.Cookies, func(c Cookie, _ int) *http.Cookie {
		return &http.Cookie{Name: c.Name, Value: c.Value}
	})
}

func FromHTTPCookies(cookies []*http.Cookie) []Cookie {
	return lo.Map(cookies, func(c *http.Cookie, _ int) Cookie {
		return Cookie{Name: c.Name, Value: c.Value}
	})
}
