// Package github looks up GitHub users by search query or login. Failures
// are logged and returned; requests are never retried.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mesh-intelligence/recipevault/pkg/types"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// maxBody bounds how much of a response is read.
const maxBody = 1 << 20

// Config configures a Client. Zero values select defaults.
type Config struct {
	BaseURL    string
	Token      string // Optional; sent as "Authorization: token <Token>".
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the user search and user lookup endpoints.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client from cfg.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(cfg.Token),
		httpClient: httpClient,
		log:        log,
	}
}

// searchResponse is the subset of /search/users the client reads.
type searchResponse struct {
	TotalCount int                 `json:"total_count"`
	Items      []types.UserSummary `json:"items"`
}

// SearchUsers returns the users matching query. An empty result is not an
// error.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]types.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is required")
	}

	params := url.Values{}
	params.Set("q", query)

	var resp searchResponse
	if err := c.get(ctx, "search users", "/search/users?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []types.UserSummary{}
	}
	return resp.Items, nil
}

// GetUser returns the user with the given login.
func (c *Client) GetUser(ctx context.Context, login string) (types.UserSummary, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return types.UserSummary{}, errors.New("login is required")
	}

	var user types.UserSummary
	if err := c.get(ctx, "get user", "/users/"+url.PathEscape(login), &user); err != nil {
		return types.UserSummary{}, err
	}
	return user, nil
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	c.log.DebugContext(ctx, "calling GitHub", "op", op, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "GitHub request failed", "op", op, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrNetwork, op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		c.log.ErrorContext(ctx, "reading GitHub response", "op", op, "error", err)
		return fmt.Errorf("%w: read %s response: %w", ErrNetwork, op, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		serr := &StatusError{Operation: op, StatusCode: resp.StatusCode, Message: apiMessage(body)}
		c.log.ErrorContext(ctx, "GitHub returned an error", "op", op, "status", resp.StatusCode, "message", serr.Message)
		return serr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrNetwork, op, err)
	}
	return nil
}

// apiMessage extracts the "message" field GitHub puts in error bodies,
// falling back to the trimmed body.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
