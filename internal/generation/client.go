// Package generation requests new study items from the content-generation service.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/recall/internal/content"
)

// Request describes the items to generate.
type Request struct {
	Topic string             `json:"topic"`
	Count int                `json:"count"`
	Types []content.ItemType `json:"types,omitempty"`
}

// GeneratedItem is one item returned by the service, typed at the boundary.
type GeneratedItem struct {
	Key     string
	Payload content.Payload
}

type generateResponse struct {
	Items []generatedItem `json:"items"`
}

type generatedItem struct {
	Key     string          `json:"key"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// StatusError is a non-2xx response from the service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Client calls the content-generation service over HTTP.
type Client struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
	retryDelay       time.Duration
}

// NewClient returns a Client for baseURL. An empty apiKey sends no
// Authorization header. retryAttempts counts retries after the first request.
func NewClient(baseURL, apiKey string, timeout time.Duration, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}

	return &Client{
		httpClient:       client,
		maxRetryAttempts: retryAttempts,
		retryDelay:       500 * time.Millisecond,
	}
}

// Close releases the underlying HTTP client.
func (client *Client) Close() error {
	return client.httpClient.Close()
}

// Generate asks the service for new items. Rate limiting, server errors,
// and transport failures are retried with exponential backoff. Client errors
// and items that fail to decode are returned without retrying.
func (client *Client) Generate(ctx context.Context, req Request) ([]GeneratedItem, error) {
	if req.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if req.Count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", req.Count)
	}

	var result []GeneratedItem
	if err := retry.Do(
		func() error {
			items, err := client.generate(ctx, req)
			if err != nil {
				var statusErr *StatusError
				if errors.As(err, &statusErr) && !statusErr.retryable() {
					return retry.Unrecoverable(err)
				}
				if errors.Is(err, content.ErrUnknownItemType) || errors.Is(err, content.ErrInvalidPayload) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = items
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.Delay(client.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying generation request",
				"attempt", n+1,
				"topic", req.Topic,
				"lastError", err)
		}),
	); err != nil {
		return nil, err
	}
	return result, nil
}

func (client *Client) generate(ctx context.Context, req Request) ([]GeneratedItem, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&generateResponse{}).
		Post("/v1/items:generate")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return nil, &StatusError{StatusCode: response.StatusCode(), Body: response.String()}
	}

	body, ok := response.Result().(*generateResponse)
	if !ok || body == nil {
		return nil, fmt.Errorf("empty response body: %s", response.String())
	}

	items := make([]GeneratedItem, 0, len(body.Items))
	for i, gi := range body.Items {
		t, err := content.ParseItemType(gi.Type)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		payload, err := content.DecodePayload(t, gi.Payload)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		key := gi.Key
		if key == "" {
			hash, err := content.Hash(payload)
			if err != nil {
				return nil, err
			}
			key = "generated-" + hash[:12]
		}
		items = append(items, GeneratedItem{Key: key, Payload: payload})
	}
	slog.Default().Debug("generated items", "topic", req.Topic, "count", len(items))
	return items, nil
}
