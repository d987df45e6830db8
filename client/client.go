package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/newsline-app/newsline/models"
	"github.com/newsline-app/newsline/services"
)

// Client is a typed HTTP client for the newsline API. Token, when set, is
// sent as a bearer credential on every request.
type Client struct {
	http.Client
	BaseURL string
	Token   string
}

type apiError struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

func (e *apiError) text(status int) string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != "" {
		return e.Err
	}
	return http.StatusText(status)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, apiErr.text(resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SignIn exchanges credentials for a token and keeps it on the client.
// Returns the signed-in role.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/signin",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return "", err
	}
	c.Token = out.Token
	return out.Role, nil
}

func (c *Client) FetchPage(ctx context.Context, page int) ([]models.Article, error) {
	var articles []models.Article
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/news?page=%d", page), nil, &articles)
	return articles, err
}

func (c *Client) FetchTagPage(ctx context.Context, tag string, page int) ([]models.Article, error) {
	var articles []models.Article
	path := fmt.Sprintf("/api/news/tags/%s?page=%d", url.PathEscape(tag), page)
	err := c.do(ctx, http.MethodGet, path, nil, &articles)
	return articles, err
}

func (c *Client) FetchTags(ctx context.Context) ([]string, error) {
	var tags []string
	err := c.do(ctx, http.MethodGet, "/api/news/tags", nil, &tags)
	return tags, err
}

func (c *Client) FetchArticle(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/news/%d", id), nil, &article)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (c *Client) Create(ctx context.Context, input services.ArticleInput) (*models.Article, error) {
	var article models.Article
	if err := c.do(ctx, http.MethodPost, "/api/news", input, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (c *Client) Edit(ctx context.Context, id uint, input services.ArticleInput) (*models.Article, error) {
	var article models.Article
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/news/%d", id), input, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/news/%d", id), nil, nil)
}

func (c *Client) react(ctx context.Context, id uint, action, counter string) (int64, error) {
	var out map[string]int64
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/news/%d/%s", id, action), nil, &out)
	if err != nil {
		return 0, err
	}
	return out[counter], nil
}

func (c *Client) Like(ctx context.Context, id uint) (int64, error) {
	return c.react(ctx, id, "like", "likes")
}

func (c *Client) Dislike(ctx context.Context, id uint) (int64, error) {
	return c.react(ctx, id, "dislike", "dislikes")
}

func (c *Client) View(ctx context.Context, id uint) (int64, error) {
	return c.react(ctx, id, "view", "views")
}

// PageFetcher adapts the global feed endpoint to the reconciler.
func (c *Client) PageFetcher() Fetcher {
	return func(ctx context.Context, page int) ([]models.Article, error) {
		return c.FetchPage(ctx, page)
	}
}

// TagPageFetcher adapts a tag feed endpoint to the reconciler.
func (c *Client) TagPageFetcher(tag string) Fetcher {
	return func(ctx context.Context, page int) ([]models.Article, error) {
		return c.FetchTagPage(ctx, tag, page)
	}
}
