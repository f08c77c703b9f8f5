package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/0xsj/aegis/internal/port/outbound/idp"
)

const defaultRequestTimeout = 5 * time.Second

// Config holds identity provider client configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

// client implements idp.IdentityProvider against the provider's REST API.
type client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a new IdentityProvider client.
func NewClient(cfg Config) idp.IdentityProvider {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return &client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

func (c *client) InvalidateSessions(ctx context.Context, userID uuid.UUID) error {
	url := fmt.Sprintf("%s/v1/users/%s/sessions/invalidate", c.cfg.BaseURL, userID)

	resp, err := c.do(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("failed to invalidate provider sessions: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("provider session invalidation returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *client) IssueToken(ctx context.Context, userID uuid.UUID) (idp.IssuedToken, error) {
	url := fmt.Sprintf("%s/v1/tokens", c.cfg.BaseURL)

	body, err := json.Marshal(issueTokenRequest{UserID: userID.String()})
	if err != nil {
		return idp.IssuedToken{}, fmt.Errorf("failed to marshal token request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return idp.IssuedToken{}, fmt.Errorf("failed to request token: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return idp.IssuedToken{}, fmt.Errorf("provider token issuance returned status %d", resp.StatusCode)
	}

	var issued issueTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&issued); err != nil {
		return idp.IssuedToken{}, fmt.Errorf("failed to decode token response: %w", err)
	}

	return idp.IssuedToken{
		Token:     issued.Token,
		ExpiresAt: time.Unix(issued.ExpiresAt, 0).UTC(),
	}, nil
}

func (c *client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// Wire types

type issueTokenRequest struct {
	UserID string `json:"user_id"`
}

type issueTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
