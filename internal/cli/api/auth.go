package api

import (
	"context"
	"net/http"

	"ClinicDesk/internal/cli/model"
)

// Login posts credentials to /Auth/login. It never carries a bearer token.
func (c *Client) Login(ctx context.Context, in model.Login) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/Auth/login", Body: in}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, in model.Register) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/Auth/register", Body: in}, &out)
	return out, err
}

func (c *Client) ForgotPassword(ctx context.Context, in model.ForgotPassword) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/Auth/forgot-password", Body: in}, &out)
	return out, err
}

func (c *Client) ResetPassword(ctx context.Context, in model.ResetPassword) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/Auth/reset-password", Body: in}, &out)
	return out, err
}

// Countries returns the country list used by the registration form.
func (c *Client) Countries(ctx context.Context) ([]model.Country, error) {
	var out []model.Country
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/Auth"}, &out)
	return out, err
}
