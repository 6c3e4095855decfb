package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/isukupay/waste-platform/internal/core/domain"
	"github.com/isukupay/waste-platform/internal/portal/metrics"
)

// ErrSessionExpired signals that a request hit a 401 and the silent refresh
// failed too. The session store has been wiped; the only sensible next step
// for a handler is sending the browser back to the login page.
var ErrSessionExpired = errors.New("session expired")

// TokenStore is the slice of the session store the transport reads tokens
// from. Tokens are read from the store, not from an in-memory session, so the
// transport stays usable from any code path that carries a session id.
type TokenStore interface {
	Load(ctx context.Context, sid string) (*domain.User, *domain.TokenPair, error)
	SaveTokens(ctx context.Context, sid string, tokens *domain.TokenPair) error
	Clear(ctx context.Context, sid string) error
}

type sessionIDKey struct{}

// WithSessionID returns a context carrying the session id the transport
// scopes its token lookups to.
func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sid)
}

// SessionIDFrom extracts the session id placed by WithSessionID.
func SessionIDFrom(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sessionIDKey{}).(string)
	return sid, ok
}

// Transport attaches the session's access token to outgoing requests and
// performs at most one silent refresh-and-retry when the backend answers 401.
// The retry budget lives in the RoundTrip call frame, so concurrent requests
// cannot leak retry state into each other. Every other status passes through
// untouched — business errors are not this layer's concern.
type Transport struct {
	base       http.RoundTripper
	store      TokenStore
	refreshURL string
	log        zerolog.Logger
}

// NewTransport wraps base (http.DefaultTransport when nil) with bearer
// attachment and one-shot 401 recovery against refreshURL.
func NewTransport(base http.RoundTripper, store TokenStore, refreshURL string, log zerolog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, store: store, refreshURL: refreshURL, log: log}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	sid, _ := SessionIDFrom(ctx)

	var tokens *domain.TokenPair
	if sid != "" {
		_, stored, err := t.store.Load(ctx, sid)
		if err != nil {
			t.log.Warn().Err(err).Msg("token load failed, sending request without credentials")
		} else {
			tokens = stored
		}
	}

	out := req.Clone(ctx)
	if tokens != nil && tokens.Access != "" {
		out.Header.Set("Authorization", "Bearer "+tokens.Access)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// 401: spend the single refresh attempt this request gets.
	if tokens == nil || tokens.Refresh == "" {
		return resp, nil
	}

	newAccess, refreshErr := t.refresh(ctx, tokens.Refresh)
	if refreshErr != nil {
		drain(resp)
		metrics.SilentRefreshesTotal.WithLabelValues("failure").Inc()
		if clearErr := t.store.Clear(ctx, sid); clearErr != nil {
			t.log.Warn().Err(clearErr).Msg("failed to clear session after refresh failure")
		}
		return nil, fmt.Errorf("refresh after 401: %w", ErrSessionExpired)
	}

	metrics.SilentRefreshesTotal.WithLabelValues("success").Inc()
	if saveErr := t.store.SaveTokens(ctx, sid, &domain.TokenPair{Access: newAccess, Refresh: tokens.Refresh}); saveErr != nil {
		t.log.Warn().Err(saveErr).Msg("failed to persist refreshed access token")
	}

	drain(resp)
	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, fmt.Errorf("rewind request body for retry: %w", bodyErr)
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+newAccess)

	// One retry only: a second 401 is returned to the caller as-is.
	return t.base.RoundTrip(retry)
}

// refresh exchanges the refresh token for a new access token. It goes
// directly through the base transport — routing it through this transport
// would make the refresh call try to refresh itself.
func (t *Transport) refresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return "", err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if body.Access == "" {
		return "", errors.New("refresh response missing access token")
	}
	return body.Access, nil
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
