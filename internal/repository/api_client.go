package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-candidate/internal/config"
	"github.com/stemsi/exstem-candidate/internal/model"
)

// maxResponseBytes caps how much of a collaborator response is read.
const maxResponseBytes = 4 << 20

// APIClient talks to the exam backend that serves questions and grades
// submissions.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

// NewAPIClient creates an APIClient from configuration.
func NewAPIClient(cfg *config.Config, log zerolog.Logger) *APIClient {
	return &APIClient{
		baseURL: cfg.APIBaseURL,
		token:   cfg.AccessToken,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		log:     log.With().Str("component", "api_client").Logger(),
	}
}

// WithToken returns a copy of the client that sends token as bearer auth.
func (c *APIClient) WithToken(token string) *APIClient {
	cp := *c
	cp.token = token
	return &cp
}

func (c *APIClient) getJSON(ctx context.Context, endpoint string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, dst)
}

// postForm sends body as application/x-www-form-urlencoded.
func (c *APIClient) postForm(ctx context.Context, endpoint string, body url.Values, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(body.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, dst)
}

// do executes req and decodes the JSON body regardless of status code; the
// backend reports failures through its success flag. Network and decoding
// failures are wrapped in model.ErrTransport.
func (c *APIClient) do(req *http.Request, dst interface{}) error {
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("API request failed")
		return fmt.Errorf("%w: %s %s: %v", model.ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(dst); err != nil {
		c.log.Error().Err(err).Int("status", resp.StatusCode).Str("path", req.URL.Path).Msg("API response decode failed")
		return fmt.Errorf("%w: decode %s (status %d): %v", model.ErrTransport, req.URL.Path, resp.StatusCode, err)
	}

	c.log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("API request done")
	return nil
}
