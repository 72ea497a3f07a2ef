package ghost

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai-travel-planner/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Post is a post as returned by the Ghost Admin API.
type Post struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// PostsResponse is the top-level structure of the Ghost API response for posts.
type PostsResponse struct {
	Posts []Post `json:"posts"`
}

// Client publishes itineraries to a Ghost blog.
type Client interface {
	CreatePost(ctx context.Context, title, html string, tags []string, publish bool) (*Post, error)
}

// ghostClient is the concrete implementation of the Ghost Admin API client.
type ghostClient struct {
	httpClient *http.Client
	baseURL    string
	adminKey   string
}

// NewClient creates a new Ghost API client.
func NewClient(cfg *config.Config) Client {
	return &ghostClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.GhostURL, "/"),
		adminKey:   cfg.GhostAdminKey,
	}
}

type newPost struct {
	Title  string   `json:"title"`
	HTML   string   `json:"html"`
	Status string   `json:"status"`
	Tags   []string `json:"tags,omitempty"`
}

// CreatePost creates a new post using the Ghost Admin API.
// Unpublished posts are saved as drafts.
func (c *ghostClient) CreatePost(ctx context.Context, title, html string, tags []string, publish bool) (*Post, error) {
	token, err := c.createAdminToken(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create admin token: %w", err)
	}

	status := "draft"
	if publish {
		status = "published"
	}

	body, err := json.Marshal(map[string][]newPost{
		"posts": {{Title: title, HTML: html, Status: status, Tags: tags}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode post: %w", err)
	}

	url := fmt.Sprintf("%s/ghost/api/admin/posts/?source=html", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var errResp any
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("admin api error: status %d, body: %v", resp.StatusCode, errResp)
	}

	var response PostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Posts) == 0 {
		return nil, fmt.Errorf("no post returned from api")
	}

	return &response.Posts[0], nil
}

// createAdminToken generates a short-lived JWT for the Admin API.
func (c *ghostClient) createAdminToken(now time.Time) (string, error) {
	id, secretHex, ok := strings.Cut(c.adminKey, ":")
	if !ok || id == "" || secretHex == "" {
		return "", fmt.Errorf("invalid admin key format: expected id:secret")
	}

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
		"aud": "/admin/",
	})
	token.Header["kid"] = id

	return token.SignedString(secret)
}
