package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"github.com/at-ishikawa/recall/internal/content"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClient_Generate(t *testing.T) {
	tests := []struct {
		name              string
		request           Request
		mockServerHandler func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request)

		want            []GeneratedItem
		wantCalls       int32
		wantErrorString string
	}{
		{
			name:    "typed items are returned",
			request: Request{Topic: "capitals", Count: 2, Types: []content.ItemType{content.ItemTypeFlashcard, content.ItemTypeTrueFalse}},
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/items:generate", r.URL.Path)
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

				var req Request
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "capitals", req.Topic)
				assert.Equal(t, 2, req.Count)
				assert.Equal(t, []content.ItemType{content.ItemTypeFlashcard, content.ItemTypeTrueFalse}, req.Types)

				writeJSON(t, w, http.StatusOK, map[string]any{
					"items": []map[string]any{
						{"key": "france", "type": "flashcard", "payload": map[string]any{"front": "France", "back": "Paris"}},
						{"type": "true_false", "payload": map[string]any{"statement": "Lima is in Chile", "answer": false}},
					},
				})
			},
			want: []GeneratedItem{
				{Key: "france", Payload: content.Flashcard{Front: "France", Back: "Paris"}},
				{Payload: content.TrueFalse{Statement: "Lima is in Chile", Answer: false}},
			},
			wantCalls: 1,
		},
		{
			name:    "server errors are retried",
			request: Request{Topic: "capitals", Count: 1},
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				switch calls {
				case 1:
					writeJSON(t, w, http.StatusTooManyRequests, map[string]string{"error": "slow down"})
				case 2:
					writeJSON(t, w, http.StatusBadGateway, map[string]string{"error": "upstream"})
				default:
					writeJSON(t, w, http.StatusOK, map[string]any{
						"items": []map[string]any{
							{"key": "peru", "type": "flashcard", "payload": map[string]any{"front": "Peru", "back": "Lima"}},
						},
					})
				}
			},
			want:      []GeneratedItem{{Key: "peru", Payload: content.Flashcard{Front: "Peru", Back: "Lima"}}},
			wantCalls: 3,
		},
		{
			name:    "client errors are not retried",
			request: Request{Topic: "capitals", Count: 1},
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "count too large"})
			},
			wantCalls:       1,
			wantErrorString: "response error 400",
		},
		{
			name:    "retries are bounded",
			request: Request{Topic: "capitals", Count: 1},
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusServiceUnavailable, map[string]string{"error": "down"})
			},
			wantCalls:       4,
			wantErrorString: "response error 503",
		},
		{
			name:    "unknown item type",
			request: Request{Topic: "capitals", Count: 1},
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{
					"items": []map[string]any{{"type": "essay", "payload": map[string]any{}}},
				})
			},
			wantCalls:       1,
			wantErrorString: "unknown item type",
		},
		{
			name:    "invalid payloads are not retried",
			request: Request{Topic: "capitals", Count: 1},
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{
					"items": []map[string]any{{"type": "flashcard", "payload": map[string]any{"front": "France"}}},
				})
			},
			wantCalls:       1,
			wantErrorString: "invalid payload",
		},
		{
			name:    "malformed payloads are not retried",
			request: Request{Topic: "capitals", Count: 1},
			mockServerHandler: func(t *testing.T, calls int32, w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{
					"items": []map[string]any{{"type": "multiple_choice", "payload": map[string]any{"question": "2+2?", "choices": "4"}}},
				})
			},
			wantCalls:       1,
			wantErrorString: "invalid payload",
		},
		{
			name:            "missing topic",
			request:         Request{Count: 1},
			wantErrorString: "topic is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				tt.mockServerHandler(t, n, w, r)
			}))
			defer server.Close()

			client := &Client{
				httpClient:       resty.New().SetBaseURL(server.URL).SetHeader("Authorization", "Bearer secret"),
				maxRetryAttempts: 3,
				retryDelay:       time.Millisecond,
			}
			defer func() { _ = client.Close() }()

			got, err := client.Generate(context.Background(), tt.request)
			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantErrorString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrorString)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i, item := range got {
				assert.Equal(t, tt.want[i].Payload, item.Payload)
				if tt.want[i].Key != "" {
					assert.Equal(t, tt.want[i].Key, item.Key)
				} else {
					assert.Regexp(t, "^generated-[0-9a-f]{12}$", item.Key)
				}
			}
		})
	}
}

func TestClient_Generate_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "bad key"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "wrong", time.Second, 2)
	client.retryDelay = time.Millisecond
	defer func() { _ = client.Close() }()

	_, err := client.Generate(context.Background(), Request{Topic: "capitals", Count: 1})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}
