package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carhub/car-inventory/internal/car/domain"
	"github.com/carhub/car-inventory/internal/client/session"
	"github.com/carhub/car-inventory/internal/user/entity"
)

// NetworkError wraps a transport failure. It is generic and retryable;
// the cache is never mutated when one is returned.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client talks to the car-inventory REST API using the session's bearer
// token.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

func NewClient(baseURL string, sess *session.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: sess,
	}
}

type authPayload struct {
	User  session.Principal `json:"user"`
	Token string            `json:"token"`
}

// Login authenticates and stores the resulting principal and token in
// the session (which persists them to its durable slot).
func (c *Client) Login(ctx context.Context, email, password string) (*session.Principal, error) {
	var resp authPayload
	err := c.do(ctx, http.MethodPost, "/api/users/login",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	if err := c.session.Set(&resp.User, resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates an account and stores the session like Login.
func (c *Client) Register(ctx context.Context, name, email, password string) (*session.Principal, error) {
	var resp authPayload
	err := c.do(ctx, http.MethodPost, "/api/users/register",
		map[string]string{"name": name, "email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	if err := c.session.Set(&resp.User, resp.Token); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Profile fetches the authenticated principal from the server.
func (c *Client) Profile(ctx context.Context) (*session.Principal, error) {
	var p session.Principal
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Logout invalidates the server session and clears the local one.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/users/logout", nil, nil); err != nil {
		return err
	}
	return c.session.Clear()
}

func (c *Client) Create(ctx context.Context, draft domain.CarDraft) (*domain.Car, error) {
	var car domain.Car
	if err := c.do(ctx, http.MethodPost, "/api/cars", draft, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *Client) ListAll(ctx context.Context) ([]*domain.Car, error) {
	var cars []*domain.Car
	if err := c.do(ctx, http.MethodGet, "/api/cars", nil, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

func (c *Client) GetOne(ctx context.Context, id string) (*domain.Car, error) {
	var car domain.Car
	if err := c.do(ctx, http.MethodGet, "/api/cars/"+url.PathEscape(id), nil, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *Client) Update(ctx context.Context, id string, patch domain.CarPatch) (*domain.Car, error) {
	var car domain.Car
	if err := c.do(ctx, http.MethodPatch, "/api/cars/"+url.PathEscape(id), patch, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/cars/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Search(ctx context.Context, query string) ([]*domain.Car, error) {
	var cars []*domain.Car
	path := "/api/cars/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

type errorPayload struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.asDomainError(path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	return nil
}

// asDomainError re-hydrates the server's error contract into the same
// domain errors the server-side code uses. 404s are mapped by the
// request path: only car endpoints report ErrCarNotFound.
func (c *Client) asDomainError(path string, resp *http.Response) error {
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	switch resp.StatusCode {
	case http.StatusNotFound:
		if strings.HasPrefix(path, "/api/cars") {
			return domain.ErrCarNotFound
		}
		if strings.HasPrefix(path, "/api/users") {
			return entity.ErrUserNotFound
		}
		return fmt.Errorf("not found: %s", payload.Error)
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusBadRequest:
		if len(payload.Fields) > 0 {
			return &domain.ValidationError{Fields: payload.Fields}
		}
		return &domain.ValidationError{Fields: map[string]string{"request": payload.Error}}
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, payload.Error)
	}
}
