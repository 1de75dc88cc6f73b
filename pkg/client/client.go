package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/elsanchez/social-dashboard/internal/domain"
)

// DefaultBaseURL es la dirección por defecto del daemon
const DefaultBaseURL = "http://localhost:8000"

// GetDefaultBaseURL retorna SOCIALDASH_URL o la dirección por defecto
func GetDefaultBaseURL() string {
	if u := os.Getenv("SOCIALDASH_URL"); u != "" {
		return u
	}
	return DefaultBaseURL
}

// Client representa un cliente de la API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient crea un cliente con base URL personalizada
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewDefaultClient crea un cliente con la base URL por defecto
func NewDefaultClient() *Client {
	return NewClient(GetDefaultBaseURL())
}

// APIError es una respuesta de error de la API
type APIError struct {
	Status    int    `json:"-"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s (%d %s, request %s)", e.Message, e.Status, e.Type, e.RequestID)
	}
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Type)
}

// Do envía una petición y decodifica la respuesta en out (si no es nil)
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w (is daemon running?)", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// --- Servicio ---

// Health retorna el estado reportado por /health
func (c *Client) Health(ctx context.Context) (string, error) {
	var res struct {
		Status string `json:"status"`
	}
	if err := c.Do(ctx, http.MethodGet, "/health", nil, nil, &res); err != nil {
		return "", err
	}
	return res.Status, nil
}

// Seed carga los datos de demo
func (c *Client) Seed(ctx context.Context) (*SeedResult, error) {
	var res SeedResult
	if err := c.Do(ctx, http.MethodPost, "/api/seed", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SeedResult es la respuesta de /api/seed
type SeedResult struct {
	Message  string `json:"message"`
	Accounts int    `json:"accounts"`
	Posts    int    `json:"posts"`
}

// --- Analytics ---

// Dashboard obtiene los totales globales
func (c *Client) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.Do(ctx, http.MethodGet, "/api/analytics/dashboard", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Trends obtiene el engagement por día de los últimos days días
func (c *Client) Trends(ctx context.Context, days int) ([]domain.EngagementTrend, error) {
	var trends []domain.EngagementTrend
	q := url.Values{"days": {strconv.Itoa(days)}}
	if err := c.Do(ctx, http.MethodGet, "/api/analytics/trends", q, nil, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

// Platforms obtiene el resumen por cuenta activa
func (c *Client) Platforms(ctx context.Context) ([]domain.PlatformStats, error) {
	var stats []domain.PlatformStats
	if err := c.Do(ctx, http.MethodGet, "/api/analytics/platforms", nil, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// TopPosts obtiene los limit posts con más engagement
func (c *Client) TopPosts(ctx context.Context, limit int) ([]domain.TopPost, error) {
	var posts []domain.TopPost
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.Do(ctx, http.MethodGet, "/api/analytics/top-posts", q, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Demographics obtiene el desglose de audiencia
func (c *Client) Demographics(ctx context.Context, accountID int64) (*domain.Demographics, error) {
	var q url.Values
	if accountID > 0 {
		q = url.Values{"account_id": {strconv.FormatInt(accountID, 10)}}
	}

	var demo domain.Demographics
	if err := c.Do(ctx, http.MethodGet, "/api/analytics/demographics", q, nil, &demo); err != nil {
		return nil, err
	}
	return &demo, nil
}

// --- Cuentas y posts ---

// Accounts lista las cuentas activas
func (c *Client) Accounts(ctx context.Context, skip, limit int) ([]domain.Account, error) {
	var accounts []domain.Account
	q := url.Values{"skip": {strconv.Itoa(skip)}, "limit": {strconv.Itoa(limit)}}
	if err := c.Do(ctx, http.MethodGet, "/api/accounts", q, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// PostsFilter son los filtros de Posts; los valores cero se ignoran
type PostsFilter struct {
	AccountID int64
	Status    string
	Skip      int
	Limit     int
}

// Posts lista posts con filtros opcionales
func (c *Client) Posts(ctx context.Context, f PostsFilter) ([]domain.Post, error) {
	q := url.Values{}
	if f.AccountID > 0 {
		q.Set("account_id", strconv.FormatInt(f.AccountID, 10))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Skip > 0 {
		q.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	var posts []domain.Post
	if err := c.Do(ctx, http.MethodGet, "/api/posts", q, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Scheduled lista los posts programados
func (c *Client) Scheduled(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	if err := c.Do(ctx, http.MethodGet, "/api/posts/scheduled", nil, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Publish publica un post
func (c *Client) Publish(ctx context.Context, id int64) (*domain.Post, error) {
	var post domain.Post
	path := "/api/posts/" + strconv.FormatInt(id, 10) + "/publish"
	if err := c.Do(ctx, http.MethodPost, path, nil, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}
