// Package authapi is the portal's HTTP client for the auth backend. The
// credentialed path goes through Transport, which attaches bearer tokens and
// recovers once from an expired access token.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/isukupay/waste-platform/internal/core/domain"
	"github.com/isukupay/waste-platform/internal/core/ports"
)

// APIError is a non-2xx answer from the backend, carrying the status and the
// backend's error message so handlers can relay both.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the auth backend. Anonymous endpoints (login, register,
// logout) use a plain HTTP client; credentialed endpoints go through the
// refreshing Transport.
type Client struct {
	baseURL string
	public  *http.Client
	authed  *http.Client
}

// NewClient builds a Client rooted at baseURL (e.g. http://api:8000/api/v1).
func NewClient(baseURL string, store TokenStore, log zerolog.Logger) *Client {
	transport := NewTransport(nil, store, baseURL+"/auth/token/refresh", log)
	return &Client{
		baseURL: baseURL,
		public:  &http.Client{Timeout: 10 * time.Second},
		authed:  &http.Client{Timeout: 10 * time.Second, Transport: transport},
	}
}

type authPayload struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *domain.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	body := map[string]string{"email": email, "password": password}
	var out authPayload
	if err := c.postJSON(ctx, c.public, "/auth/login", body, &out); err != nil {
		return nil, nil, err
	}
	return out.User, &domain.TokenPair{Access: out.Access, Refresh: out.Refresh}, nil
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, *domain.TokenPair, error) {
	body := map[string]string{
		"email":            in.Email,
		"password":         in.Password,
		"password_confirm": in.Password,
		"first_name":       in.FirstName,
		"last_name":        in.LastName,
		"phone":            in.Phone,
		"company":          in.Company,
	}
	var out authPayload
	if err := c.postJSON(ctx, c.public, "/auth/register", body, &out); err != nil {
		return nil, nil, err
	}
	return out.User, &domain.TokenPair{Access: out.Access, Refresh: out.Refresh}, nil
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}
	return c.postJSON(ctx, c.public, "/auth/logout", body, nil)
}

// CurrentUser fetches the caller's profile. The sid scopes the token lookup
// the Transport performs; an expired session surfaces as ErrSessionExpired.
func (c *Client) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	req, err := http.NewRequestWithContext(WithSessionID(ctx, sid), http.MethodGet, c.baseURL+"/users/me", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.authed.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var user domain.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &user, nil
}

func (c *Client) postJSON(ctx context.Context, client *http.Client, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}
