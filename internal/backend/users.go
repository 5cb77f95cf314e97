package backend

import (
	"context"
	"net/http"

	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/ratelimit"
)

// Login authenticates the session; the API answers with a session cookie
// kept in the client's jar.
func (c *Client) Login(ctx context.Context, creds models.LoginRequest) (models.UserInfo, error) {
	var out models.UserInfo
	err := c.call(ctx, request{
		op:     "login",
		group:  ratelimit.GroupAuth,
		method: http.MethodPost,
		path:   "/User/login",
		body:   creds,
	}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, reg models.RegisterRequest) (models.UserInfo, error) {
	body := struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{reg.FullName, reg.Email, reg.Password}

	var out models.UserInfo
	err := c.call(ctx, request{
		op:     "register",
		group:  ratelimit.GroupAuth,
		method: http.MethodPost,
		path:   "/User/register",
		body:   body,
	}, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, request{
		op:     "logout",
		group:  ratelimit.GroupAuth,
		method: http.MethodPost,
		path:   "/User/logout",
	}, nil)
}
