package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestClient_Generate(t *testing.T) {
	t.Run("decodes the response envelope", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}

			var req map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("request body not JSON: %v", err)
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"title\":\"t\"}"}]}}]}`))
		})

		client := NewClient("test-key", "gemini-2.0-flash-lite", server.URL)
		text, err := client.Generate(context.Background(), "prompt")
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if text != `{"title":"t"}` {
			t.Errorf("text = %q", text)
		}
	})

	t.Run("requests JSON response mode", func(t *testing.T) {
		var gotConfig map[string]interface{}
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				GenerationConfig map[string]interface{} `json:"generationConfig"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			gotConfig = req.GenerationConfig
			w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{}"}]}}]}`))
		})

		client := NewClient("test-key", "gemini-2.0-flash-lite", server.URL)
		if _, err := client.Generate(context.Background(), "prompt"); err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if gotConfig["response_mime_type"] != "application/json" {
			t.Errorf("response_mime_type = %v", gotConfig["response_mime_type"])
		}
	})

	t.Run("429 is rate limited", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		client := NewClient("test-key", "m", server.URL)
		_, err := client.Generate(context.Background(), "prompt")
		if !errors.Is(err, ErrRateLimited) {
			t.Fatalf("err = %v, want ErrRateLimited", err)
		}
	})

	t.Run("5xx is rate limited", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		client := NewClient("test-key", "m", server.URL)
		_, err := client.Generate(context.Background(), "prompt")
		if !errors.Is(err, ErrRateLimited) {
			t.Fatalf("err = %v, want ErrRateLimited", err)
		}
	})

	t.Run("quota marker in error body is rate limited", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"message":"Quota exceeded for requests"}}`))
		})

		client := NewClient("test-key", "m", server.URL)
		_, err := client.Generate(context.Background(), "prompt")
		if !errors.Is(err, ErrRateLimited) {
			t.Fatalf("err = %v, want ErrRateLimited", err)
		}
	})

	t.Run("other 4xx is a plain API failure", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"invalid argument"}}`))
		})

		client := NewClient("test-key", "m", server.URL)
		_, err := client.Generate(context.Background(), "prompt")
		if !errors.Is(err, ErrAPICallFailed) {
			t.Fatalf("err = %v, want ErrAPICallFailed", err)
		}
		if errors.Is(err, ErrRateLimited) {
			t.Fatal("a 400 must not trip the rate-limit breaker")
		}
	})

	t.Run("empty candidates is invalid response", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		})

		client := NewClient("test-key", "m", server.URL)
		_, err := client.Generate(context.Background(), "prompt")
		if !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("err = %v, want ErrInvalidResponse", err)
		}
	})

	t.Run("missing API key", func(t *testing.T) {
		client := NewClient("", "m", "http://unused")
		_, err := client.Generate(context.Background(), "prompt")
		if !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("err = %v, want ErrNotConfigured", err)
		}
	})
}
