// Package x is a minimal X (Twitter) API v2 client covering what the bot
// needs: posting a tweet and verifying credentials.
package x

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
)

// DefaultBaseURL is the production X API host.
const DefaultBaseURL = "https://api.x.com"

// Credentials holds the OAuth 1.0a user-context secrets.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether all four secrets are present.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" &&
		c.AccessToken != "" && c.AccessSecret != ""
}

// Tweet is the created-tweet response payload.
type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// URL returns the public status URL for the tweet.
func (t Tweet) URL() string {
	return "https://x.com/i/status/" + t.ID
}

// User is the authenticated-user response payload.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Client posts to the X API with OAuth 1.0a signed requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client that signs requests with the given credentials.
func New(creds Credentials) *Client {
	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	httpClient := config.Client(oauth1.NoContext, token)
	httpClient.Timeout = 30 * time.Second

	return &Client{httpClient: httpClient, baseURL: DefaultBaseURL}
}

// WithBaseURL points the client at a different host. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// CreateTweet posts a tweet and returns its ID.
func (c *Client) CreateTweet(ctx context.Context, text string) (*Tweet, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create tweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, apiError("create tweet", resp)
	}

	var out struct {
		Data Tweet `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tweet response: %w", err)
	}
	if out.Data.ID == "" {
		return nil, fmt.Errorf("create tweet: response missing tweet id")
	}
	return &out.Data, nil
}

// Verify checks the credentials by fetching the authenticated user.
// A 401/403 here means bad keys or an app without read-write permission.
func (c *Client) Verify(ctx context.Context) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/2/users/me", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("verify credentials", resp)
	}

	var out struct {
		Data User `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &out.Data, nil
}

// apiError surfaces the X error payload, which carries the useful detail
// ("detail", "title") rather than the status line.
func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail != "" {
		return fmt.Errorf("%s: X returned %d: %s", op, resp.StatusCode, apiErr.Detail)
	}
	return fmt.Errorf("%s: X returned %d: %s", op, resp.StatusCode, string(body))
}
