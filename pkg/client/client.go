// Package client is a Go client for the recipes API. Credentials live in a
// Session shared by the caller, and reads follow a RetryPolicy when the
// stored token stops being accepted.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the /api/v1 endpoints
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	retry   RetryPolicy
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetryPolicy replaces DefaultRetryPolicy
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// New creates a client for the API rooted at baseURL. A nil session starts anonymous.
func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = NewSession()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
		retry:   DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client authenticates with
func (c *Client) Session() *Session {
	return c.session
}

type envelope struct {
	StatusCode string            `json:"statusCode"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Details    map[string]string `json:"details"`
	TotalItems int64             `json:"totalItems"`
	PageNumber int               `json:"pageNumber"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

func (e *envelope) page() Page {
	return Page{
		TotalItems: e.TotalItems,
		PageNumber: e.PageNumber,
		PageSize:   e.PageSize,
		TotalPages: e.TotalPages,
	}
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if _, err := c.call(ctx, http.MethodPost, "/users", nil, req, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login signs in and stores the issued token in the session
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
		User      *User     `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if _, err := c.call(ctx, http.MethodPost, "/users/login", nil, body, "", &out); err != nil {
		return nil, err
	}
	c.session.Set(out.Token, out.User)
	return out.User, nil
}

// Logout revokes the session token. The session is cleared even when the
// server no longer knew the token.
func (c *Client) Logout(ctx context.Context) error {
	token := c.session.Token()
	if token == "" {
		return nil
	}
	_, err := c.call(ctx, http.MethodPost, "/users/logout", nil, nil, token, nil)
	c.session.Clear()
	if IsInvalidToken(err) {
		return nil
	}
	return err
}

// ListRecipes returns one page of the recipes visible to the session
func (c *Client) ListRecipes(ctx context.Context, q RecipeQuery) (*RecipePage, error) {
	var page *RecipePage
	err := c.retry.Do(ctx, c.session, func(ctx context.Context, token string) error {
		out := &RecipePage{}
		var target interface{} = &out.Summaries
		if q.FullResult {
			target = &out.Recipes
		}
		env, err := c.call(ctx, http.MethodGet, "/recipes", q.values(), nil, token, target)
		if err != nil {
			return err
		}
		out.Page = env.page()
		page = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GetRecipe fetches one recipe with its author
func (c *Client) GetRecipe(ctx context.Context, id uint) (*RecipeDetail, error) {
	var detail RecipeDetail
	err := c.retry.Do(ctx, c.session, func(ctx context.Context, token string) error {
		_, err := c.call(ctx, http.MethodGet, "/recipes/"+strconv.FormatUint(uint64(id), 10), nil, nil, token, &detail)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateRecipe publishes a recipe as the signed in user. A rejected token
// clears the session; writes are never retried anonymously.
func (c *Client) CreateRecipe(ctx context.Context, r NewRecipe) (*Recipe, error) {
	var recipe Recipe
	if err := c.write(ctx, "/recipes", r, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListComments returns one page of a recipe's comments, newest first
func (c *Client) ListComments(ctx context.Context, recipeID uint, pageSize, pageNumber int) (*CommentPage, error) {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("pageNumber", strconv.Itoa(pageNumber))

	var page *CommentPage
	err := c.retry.Do(ctx, c.session, func(ctx context.Context, token string) error {
		out := &CommentPage{}
		env, err := c.call(ctx, http.MethodGet, commentsPath(recipeID), q, nil, token, &out.Comments)
		if err != nil {
			return err
		}
		out.Page = env.page()
		page = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// CreateComment reviews a recipe as the signed in user
func (c *Client) CreateComment(ctx context.Context, recipeID uint, comment NewComment) (*Comment, error) {
	var out Comment
	if err := c.write(ctx, commentsPath(recipeID), comment, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func commentsPath(recipeID uint) string {
	return "/recipes/" + strconv.FormatUint(uint64(recipeID), 10) + "/comments"
}

func (c *Client) write(ctx context.Context, path string, body, out interface{}) error {
	_, err := c.call(ctx, http.MethodPost, path, nil, body, c.session.Token(), out)
	if IsInvalidToken(err) {
		c.session.Clear()
	}
	return err
}

// call sends one request and decodes the envelope's data into out
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body interface{}, token string, out interface{}) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &APIError{HTTPStatus: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || env.StatusCode != StatusOK {
		return nil, &APIError{
			HTTPStatus: resp.StatusCode,
			StatusCode: env.StatusCode,
			Message:    env.Message,
			Details:    env.Details,
		}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode data: %w", err)
		}
	}
	return &env, nil
}

func (q RecipeQuery) values() url.Values {
	v := url.Values{}
	if q.PageSize != 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.PageNumber != 0 {
		v.Set("pageNumber", strconv.Itoa(q.PageNumber))
	}
	if q.TitleSearch != "" {
		v.Set("titleSearch", q.TitleSearch)
	}
	for _, cat := range q.Categories {
		v.Add("categories", cat)
	}
	setFloat(v, "minRating", q.MinRating)
	setFloat(v, "maxRating", q.MaxRating)
	setInt(v, "minPreparationTime", q.MinPreparationTime)
	setInt(v, "maxPreparationTime", q.MaxPreparationTime)
	setInt(v, "minPortions", q.MinPortions)
	setInt(v, "maxPortions", q.MaxPortions)
	if q.UserID != nil {
		v.Set("userId", strconv.FormatUint(uint64(*q.UserID), 10))
	}
	if q.IsPublic != nil {
		v.Set("isPublic", strconv.FormatBool(*q.IsPublic))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortDescending {
		v.Set("sortDescending", "true")
	}
	if q.FullResult {
		v.Set("fullResult", "true")
	}
	return v
}

func setInt(v url.Values, key string, p *int) {
	if p != nil {
		v.Set(key, strconv.Itoa(*p))
	}
}

func setFloat(v url.Values, key string, p *float64) {
	if p != nil {
		v.Set(key, strconv.FormatFloat(*p, 'f', -1, 64))
	}
}
