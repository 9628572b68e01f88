// Package knowbargain is the REST client for the KnowBargain community
// deals API. It is the single entry point for all network traffic: every
// request goes through do, which attaches the bearer token when a session
// exists and normalizes non-2xx responses into domain.APIError.
package knowbargain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/knowbargain/kbargain/internal/domain"
)

// TokenSource supplies the current session token. An empty string means
// unauthenticated; the Authorization header is omitted entirely.
type TokenSource interface {
	Token() string
}

// Client is the REST client for the KnowBargain API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a client rooted at baseURL, e.g.
// "http://localhost:5000/api". The token source is read on every request so
// login and logout take effect immediately.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListDeals returns every deal, in the server's order (newest first).
func (c *Client) ListDeals(ctx context.Context) ([]domain.Deal, error) {
	body, err := c.do(ctx, http.MethodGet, "/deals/", nil)
	if err != nil {
		return nil, fmt.Errorf("knowbargain: list deals: %w", err)
	}

	var raw []dealJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("knowbargain: decode deals: %w", err)
	}

	deals := make([]domain.Deal, len(raw))
	for i, d := range raw {
		deals[i] = d.toDomain()
	}
	return deals, nil
}

// GetDeal returns a single deal by ID.
func (c *Client) GetDeal(ctx context.Context, dealID int64) (domain.Deal, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/deals/%d", dealID), nil)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("knowbargain: get deal %d: %w", dealID, err)
	}

	var raw dealJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.Deal{}, fmt.Errorf("knowbargain: decode deal: %w", err)
	}
	return raw.toDomain(), nil
}

// SubmitDeal creates a new deal and returns its server-assigned ID.
func (c *Client) SubmitDeal(ctx context.Context, sub domain.DealSubmission) (int64, error) {
	payload := map[string]any{
		"title":       sub.Title,
		"description": sub.Description,
		"category":    sub.Category,
		"link":        sub.Link,
		"price":       sub.Price,
		"image_url":   sub.ImageURL,
	}

	body, err := c.do(ctx, http.MethodPost, "/deals/", payload)
	if err != nil {
		return 0, fmt.Errorf("knowbargain: submit deal: %w", err)
	}

	var resp submitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("knowbargain: decode submit response: %w", err)
	}
	return resp.DealID, nil
}

// SavedDeals returns the authenticated user's saved deals.
func (c *Client) SavedDeals(ctx context.Context) ([]domain.Deal, error) {
	body, err := c.do(ctx, http.MethodGet, "/deals/saved", nil)
	if err != nil {
		return nil, fmt.Errorf("knowbargain: list saved deals: %w", err)
	}

	var raw []dealJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("knowbargain: decode saved deals: %w", err)
	}

	deals := make([]domain.Deal, len(raw))
	for i, d := range raw {
		deals[i] = d.toDomain()
	}
	return deals, nil
}

// Vote casts an up or down vote on a deal. Re-sending the current direction
// removes the vote server-side; the returned score is authoritative either
// way.
func (c *Client) Vote(ctx context.Context, dealID int64, direction domain.VoteDirection) (domain.VoteResult, error) {
	payload := map[string]string{"vote_type": string(direction)}

	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/deals/%d/vote", dealID), payload)
	if err != nil {
		return domain.VoteResult{}, fmt.Errorf("knowbargain: vote on deal %d: %w", dealID, err)
	}

	var resp voteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.VoteResult{}, fmt.Errorf("knowbargain: decode vote response: %w", err)
	}
	return domain.VoteResult{Score: resp.Score, Message: resp.Message}, nil
}

// ToggleSave flips the saved state of a deal for the authenticated user.
func (c *Client) ToggleSave(ctx context.Context, dealID int64) (domain.SaveResult, error) {
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/deals/%d/save", dealID), nil)
	if err != nil {
		return domain.SaveResult{}, fmt.Errorf("knowbargain: save deal %d: %w", dealID, err)
	}

	var resp saveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.SaveResult{}, fmt.Errorf("knowbargain: decode save response: %w", err)
	}
	return domain.SaveResult{Message: resp.Message}, nil
}

// ListComments returns a deal's comment thread in server order.
func (c *Client) ListComments(ctx context.Context, dealID int64) ([]domain.Comment, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/deals/%d/comments", dealID), nil)
	if err != nil {
		return nil, fmt.Errorf("knowbargain: list comments for deal %d: %w", dealID, err)
	}

	var raw []commentJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("knowbargain: decode comments: %w", err)
	}

	comments := make([]domain.Comment, len(raw))
	for i, cm := range raw {
		comments[i] = cm.toDomain()
	}
	return comments, nil
}

// PostComment adds a comment to a deal. The server does not return the
// created comment; callers re-fetch the thread for authoritative ordering
// and author fields.
func (c *Client) PostComment(ctx context.Context, dealID int64, content string) error {
	payload := map[string]string{"content": content}

	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/deals/%d/comments", dealID), payload)
	if err != nil {
		return fmt.Errorf("knowbargain: post comment on deal %d: %w", dealID, err)
	}
	return nil
}

// PriceHistory returns a deal's price observations, oldest first.
func (c *Client) PriceHistory(ctx context.Context, dealID int64) ([]domain.PricePoint, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/deals/%d/price_history", dealID), nil)
	if err != nil {
		return nil, fmt.Errorf("knowbargain: price history for deal %d: %w", dealID, err)
	}

	var raw []pricePointJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("knowbargain: decode price history: %w", err)
	}

	points := make([]domain.PricePoint, len(raw))
	for i, p := range raw {
		points[i] = domain.PricePoint{Price: p.Price, Timestamp: p.Timestamp.Time}
	}
	return points, nil
}

// SimulatePriceChange asks the server to apply a price tick to the deal and
// returns the new price and its timestamp.
func (c *Client) SimulatePriceChange(ctx context.Context, dealID int64) (domain.PriceTick, error) {
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/deals/%d/simulate_price_change", dealID), nil)
	if err != nil {
		return domain.PriceTick{}, fmt.Errorf("knowbargain: simulate price change for deal %d: %w", dealID, err)
	}

	var resp priceTickResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.PriceTick{}, fmt.Errorf("knowbargain: decode price tick: %w", err)
	}
	return domain.PriceTick{
		NewPrice:  resp.NewPrice,
		Timestamp: resp.Timestamp.Time,
		Message:   resp.Message,
	}, nil
}

// Login exchanges credentials for a bearer token. The token is returned to
// the caller; the client never stores it itself.
func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthResult, error) {
	payload := map[string]string{"email": email, "password": password}

	body, err := c.do(ctx, http.MethodPost, "/auth/login", payload)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("knowbargain: login: %w", err)
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.AuthResult{}, fmt.Errorf("knowbargain: decode login response: %w", err)
	}
	return domain.AuthResult{Token: resp.Token, UserID: resp.UserID, Message: resp.Message}, nil
}

// Signup creates an account and returns its bearer token.
func (c *Client) Signup(ctx context.Context, username, email, password string) (domain.AuthResult, error) {
	payload := map[string]string{"username": username, "email": email, "password": password}

	body, err := c.do(ctx, http.MethodPost, "/auth/signup", payload)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("knowbargain: signup: %w", err)
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.AuthResult{}, fmt.Errorf("knowbargain: decode signup response: %w", err)
	}
	return domain.AuthResult{Token: resp.Token, UserID: resp.UserID, Message: resp.Message}, nil
}

// Me returns the authenticated user's account.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("knowbargain: get current user: %w", err)
	}

	var resp userResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.User{}, fmt.Errorf("knowbargain: decode user: %w", err)
	}
	return domain.User{
		ID:         resp.ID,
		Username:   resp.Username,
		Email:      resp.Email,
		Reputation: resp.Reputation,
	}, nil
}

// UserStats returns the authenticated user's engagement statistics.
func (c *Client) UserStats(ctx context.Context) (domain.Stats, error) {
	body, err := c.do(ctx, http.MethodGet, "/auth/stats", nil)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("knowbargain: get stats: %w", err)
	}

	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Stats{}, fmt.Errorf("knowbargain: decode stats: %w", err)
	}
	return domain.Stats{
		Deals:    resp.Deals,
		Comments: resp.Comments,
		Karma:    resp.Karma,
		Saved:    resp.Saved,
	}, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// do builds, sends, and reads an HTTP request against the API. The bearer
// token is read from the token source per call, never cached.
func (c *Client) do(ctx context.Context, method, path string, reqBody any) ([]byte, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonBody, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, normalizeError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// normalizeError turns a non-2xx response into a domain.APIError carrying
// the server's error field, falling back to a generic message when the body
// is not the expected shape.
func normalizeError(statusCode int, body []byte) error {
	var apiErr errorResponse
	_ = json.Unmarshal(body, &apiErr)

	message := apiErr.Error
	if message == "" {
		message = "API request failed"
	}
	return &domain.APIError{Status: statusCode, Message: message}
}
