package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateLabelOverview_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.0-flash:generateContent" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "key123" {
			t.Errorf("api key header: %q", got)
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || !strings.Contains(req.Contents[0].Parts[0].Text, `"Warp"`) {
			t.Errorf("prompt should name the label: %+v", req.Contents)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "  Warp Records is a Sheffield label.  "},
				}}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("key123", WithBaseURL(srv.URL))
	got, err := c.GenerateLabelOverview(context.Background(), "Warp")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "Warp Records is a Sheffield label." {
		t.Fatalf("text not trimmed: %q", got)
	}
}

func TestGenerateLabelOverview_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "API key not valid"},
		})
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL))
	_, err := c.GenerateLabelOverview(context.Background(), "Warp")
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("expected API error message, got %v", err)
	}
}

func TestGenerateLabelOverview_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	c := NewClient("key", WithBaseURL(srv.URL))
	if _, err := c.GenerateLabelOverview(context.Background(), "Warp"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestNewClient_Options(t *testing.T) {
	c := NewClient("key", WithModel("gemini-1.5-pro"), WithBaseURL("http://x/"))
	if c.Model() != "gemini-1.5-pro" {
		t.Fatalf("model: %q", c.Model())
	}
	if c.baseURL != "http://x" {
		t.Fatalf("base url should be trimmed: %q", c.baseURL)
	}
	// Empty model keeps the default.
	c = NewClient("key", WithModel(""))
	if c.Model() != defaultModel {
		t.Fatalf("empty model should keep default: %q", c.Model())
	}
}
