package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func geminiServer(t *testing.T, text string, status int) (*httptest.Server, *[]string) {
	t.Helper()
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": status, "message": "denied"}})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"role":  "model",
						"parts": []any{map[string]any{"text": text}},
					},
					"finishReason": "STOP",
				},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server, &paths
}

func TestCompleteJSON(t *testing.T) {
	server, paths := geminiServer(t, `{"hook":"h","slides":["a","b"]}`, http.StatusOK)
	client, err := NewClient(context.Background(), Config{APIKey: "k", Model: "gemini-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	content, err := client.CompleteJSON(context.Background(), "rewrite", `{"slides":[]}`)
	if err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if content != `{"hook":"h","slides":["a","b"]}` {
		t.Fatalf("unexpected content %q", content)
	}
	if len(*paths) != 1 || !strings.Contains((*paths)[0], "gemini-test:generateContent") {
		t.Fatalf("unexpected request paths %v", *paths)
	}
}

func TestHealthCheck(t *testing.T) {
	server, _ := geminiServer(t, "```json\n{\"ok\":true}\n```", http.StatusOK)
	client, err := NewClient(context.Background(), Config{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.Model() != defaultModel {
		t.Fatalf("expected default model, got %q", client.Model())
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestHealthCheckFailure(t *testing.T) {
	server, _ := geminiServer(t, "", http.StatusForbidden)
	client, err := NewClient(context.Background(), Config{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check failure")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without api key")
	}
}
