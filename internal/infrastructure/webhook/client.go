// Package webhook implements the optional outbound site-generation
// collaborator: a fire-and-forget POST of an exported request, authenticated
// with a short-lived signed token.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// callTimeout bounds one webhook invocation end-to-end. Failures are
// best-effort: reported to the caller as a warning and never rolled back
// into stored state.
const callTimeout = 180 * time.Second

const tokenTTL = 5 * time.Minute

// Client posts exported requests to the configured generation endpoint.
type Client struct {
	url           string
	signingSecret string
	http          *http.Client
	log           zerolog.Logger
}

func NewClient(url, signingSecret string, log zerolog.Logger) *Client {
	return &Client{
		url:           url,
		signingSecret: signingSecret,
		http:          &http.Client{Timeout: callTimeout},
		log:           log,
	}
}

type generatePayload struct {
	ChatID  int64           `json:"chat_id"`
	Request json.RawMessage `json:"request"`
}

// GenerateSite posts {chat_id, request} to the webhook. A non-2xx response
// counts as failure.
func (c *Client) GenerateSite(ctx context.Context, chatID int64, exported []byte) error {
	body, err := json.Marshal(generatePayload{ChatID: chatID, Request: exported})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.signingSecret != "" {
		token, err := c.signToken()
		if err != nil {
			return fmt.Errorf("sign webhook token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook call: unexpected status %d", resp.StatusCode)
	}

	c.log.Info().Int64("chat_id", chatID).Msg("site generation requested")
	return nil
}

func (c *Client) signToken() (string, error) {
	claims := jwt.MapClaims{
		"iss": "intake-system",
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(c.signingSecret))
}
