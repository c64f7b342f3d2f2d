package internal

import (
	"context"
	"net/http"
)

// AuthAccessor exchanges credentials for a token
type AuthAccessor interface {
	Login(ctx context.Context, creds LoginCredentials) (*TokenResponse, error)
	Register(ctx context.Context, payload RegisterPayload) (*TokenResponse, error)
}

// AuthAPI is the AuthAccessor backed by the HTTP API
type AuthAPI struct {
	client *APIClient
}

// NewAuthAPI binds the auth endpoints to client
func NewAuthAPI(client *APIClient) *AuthAPI {
	return &AuthAPI{client: client}
}

// Login posts credentials to /auth/login
func (a *AuthAPI) Login(ctx context.Context, creds LoginCredentials) (*TokenResponse, error) {
	var resp TokenResponse
	if err := a.client.Do(ctx, http.MethodPost, "/auth/login", nil, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register posts a new account to /auth/register
func (a *AuthAPI) Register(ctx context.Context, payload RegisterPayload) (*TokenResponse, error) {
	var resp TokenResponse
	if err := a.client.Do(ctx, http.MethodPost, "/auth/register", nil, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PasswordMismatchMessage is shown when the sign-up confirmation differs
const PasswordMismatchMessage = "Passwords don't match"

// ConfirmPassword checks the sign-up confirmation field before anything is sent
func ConfirmPassword(password, confirmation string) error {
	if password != confirmation {
		return &APIError{
			Kind:   KindValidation,
			Method: http.MethodPost,
			Path:   "/auth/register",
			Detail: PasswordMismatchMessage,
		}
	}
	return nil
}
