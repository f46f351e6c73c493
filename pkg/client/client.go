// Package client provides a REST client for the subscription management API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/streamops/streammanager/internal/domain"
	"github.com/streamops/streammanager/internal/messaging"
	"github.com/streamops/streammanager/internal/subscribers"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// Client is a REST client for the subscription management API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the API at baseURL. Endpoints live under
// <baseURL>/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListSubscribersResponse is the payload of the subscriber list endpoint.
type ListSubscribersResponse struct {
	Subscribers []domain.Subscriber `json:"subscribers"`
	Total       int                 `json:"total"`
}

// ServicesResponse is the payload of the services endpoint.
type ServicesResponse struct {
	Services []domain.StreamingService `json:"services"`
}

// HealthResponse is the payload of the API root endpoint.
type HealthResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// CreateSubscriberRequest is the payload for creating a subscriber.
type CreateSubscriberRequest struct {
	Service        domain.StreamingService `json:"service"`
	Name           string                  `json:"name"`
	Phone          string                  `json:"phone"`
	Email          string                  `json:"email"`
	ExpirationDate domain.Date             `json:"expirationDate"`
}

// UpdateSubscriberRequest is the payload for a partial subscriber update.
// Nil fields are left unchanged.
type UpdateSubscriberRequest struct {
	Service        *domain.StreamingService `json:"service,omitempty"`
	Name           *string                  `json:"name,omitempty"`
	Phone          *string                  `json:"phone,omitempty"`
	Email          *string                  `json:"email,omitempty"`
	ExpirationDate *domain.Date             `json:"expirationDate,omitempty"`
}

// SendMessageRequest is the payload for sending a message to a subscriber.
type SendMessageRequest struct {
	SubscriberID string             `json:"subscriberId"`
	MessageType  domain.MessageType `json:"messageType"`
	Message      string             `json:"message,omitempty"`
}

// DeleteResponse is the payload of the delete endpoint.
type DeleteResponse struct {
	Message string `json:"message"`
}

// Health checks the API root endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSubscribers fetches all subscribers.
func (c *Client) ListSubscribers(ctx context.Context) (*ListSubscribersResponse, error) {
	var out ListSubscribersResponse
	if err := c.do(ctx, http.MethodGet, "/subscribers", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSubscriber creates a new subscriber.
func (c *Client) CreateSubscriber(ctx context.Context, req CreateSubscriberRequest) (*domain.Subscriber, error) {
	var out domain.Subscriber
	if err := c.do(ctx, http.MethodPost, "/subscribers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSubscriber fetches one subscriber by ID.
func (c *Client) GetSubscriber(ctx context.Context, id string) (*domain.Subscriber, error) {
	var out domain.Subscriber
	if err := c.do(ctx, http.MethodGet, "/subscribers/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSubscriber applies a partial update to a subscriber.
func (c *Client) UpdateSubscriber(ctx context.Context, id string, req UpdateSubscriberRequest) (*domain.Subscriber, error) {
	var out domain.Subscriber
	if err := c.do(ctx, http.MethodPut, "/subscribers/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSubscriber removes a subscriber.
func (c *Client) DeleteSubscriber(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/subscribers/"+url.PathEscape(id), nil, &DeleteResponse{})
}

// GetStats fetches aggregate subscription statistics.
func (c *Client) GetStats(ctx context.Context) (*subscribers.Stats, error) {
	var out subscribers.Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListServices fetches the supported streaming services.
func (c *Client) ListServices(ctx context.Context) (*ServicesResponse, error) {
	var out ServicesResponse
	if err := c.do(ctx, http.MethodGet, "/services", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMessage sends a message to a subscriber.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*messaging.SendResult, error) {
	var out messaging.SendResult
	if err := c.do(ctx, http.MethodPost, "/send-message", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one request and decodes the response into out.
// Non-2xx responses and transport failures come back as *RequestError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request", "method", method, "url", u)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", "method", method, "url", u, "error", err)
		return newTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api response",
		"method", method,
		"url", u,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
