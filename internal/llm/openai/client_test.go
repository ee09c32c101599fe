package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resume-tailor/internal/llm"
)

func TestIsGPT5(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: "gpt-5-mini", want: true},
		{name: "gpt5 uppercase", model: " GPT-5o ", want: true},
		{name: "gpt4", model: "gpt-4o", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := isGPT5(tt.model); got != tt.want {
				t.Fatalf("isGPT5(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func newTestServer(t *testing.T, status int, response string, captured *map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	oldURL := apiURL
	apiURL = server.URL
	t.Cleanup(func() {
		apiURL = oldURL
		server.Close()
	})
	return server
}

func TestCompleteSendsJSONModeAndTemperature(t *testing.T) {
	var body map[string]any
	newTestServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":" {\"name\":\"A\"} "}}],"usage":{"total_tokens":12}}`, &body)

	client, err := NewClient("test-key", "gpt-4o", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := client.Complete(context.Background(), llm.Request{System: "sys", User: "user", Temperature: 0.1, JSON: true})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"name":"A"}` {
		t.Fatalf("unexpected content %q", out)
	}
	if rf, ok := body["response_format"].(map[string]any); !ok || rf["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", body["response_format"])
	}
	if temp, ok := body["temperature"].(float64); !ok || temp < 0.09 || temp > 0.11 {
		t.Fatalf("expected temperature 0.1, got %v", body["temperature"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", msgs)
	}
}

func TestCompleteOmitsTemperatureForGPT5(t *testing.T) {
	var body map[string]any
	newTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":"{}"}}]}`, &body)

	client, _ := NewClient("test-key", "gpt-5-mini", time.Second)
	if _, err := client.Complete(context.Background(), llm.Request{User: "u", Temperature: 0.2}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, ok := body["temperature"]; ok {
		t.Fatalf("expected temperature omitted")
	}
	if _, ok := body["response_format"]; ok {
		t.Fatalf("expected no response_format when JSON is false")
	}
}

func TestCompleteSurfacesProviderError(t *testing.T) {
	newTestServer(t, http.StatusTooManyRequests, `{"error":{"message":"rate limited","type":"requests"}}`, nil)

	client, _ := NewClient("test-key", "gpt-4o", time.Second)
	_, err := client.Complete(context.Background(), llm.Request{User: "u"})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	newTestServer(t, http.StatusOK, `{"choices":[]}`, nil)

	client, _ := NewClient("test-key", "gpt-4o", time.Second)
	if _, err := client.Complete(context.Background(), llm.Request{User: "u"}); err == nil {
		t.Fatalf("expected error for missing choices")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("", "gpt-4o", 0); err == nil {
		t.Fatalf("expected missing key error")
	}
}
