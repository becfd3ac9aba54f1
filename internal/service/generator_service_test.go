package service

import (
	"certprep/internal/config"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleBatch = "```json\n" + `[
  {"domain": "", "question": "Which port does HTTPS use?", "option_a": "80", "option_b": "443",
   "option_c": "21", "option_d": "25", "correct_option": "option_b", "explanation": "TLS over 443"},
  {"domain": "Networking", "question": "Which layer is IP?", "option_a": "2", "option_b": "3",
   "option_c": "4", "option_d": "7", "correct_option": "b", "explanation": ""},
  {"domain": "Networking", "question": "Extra", "option_a": "1", "option_b": "2",
   "option_c": "3", "option_d": "4", "correct_option": "A", "explanation": ""}
]` + "\n```"

func geminiServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("missing api key")
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiGenerate(t *testing.T) {
	srv := geminiServer(t, sampleBatch)
	gen := NewGeneratorService(&config.AIConfig{
		Provider: config.ProviderGemini, APIKey: "k", BaseURL: srv.URL, Model: "test-model", TimeoutMS: 1000,
	})

	questions, err := gen.Generate(context.Background(), "Networking basics", 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2 (truncated)", len(questions))
	}
	for i, q := range questions {
		if q.ID != int64(i+1) {
			t.Errorf("question %d has id %d", i, q.ID)
		}
		if q.CorrectOption != "B" {
			t.Errorf("question %d correct option %q, want B", i, q.CorrectOption)
		}
	}
	if questions[0].Domain != "Networking basics" {
		t.Errorf("missing domain not defaulted to topic: %q", questions[0].Domain)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("missing bearer token")
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Model != "gpt-test" {
			t.Errorf("bad request: %v %+v", err, req)
		}
		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}{})
		resp.Choices[0].Message.Content = sampleBatch
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	gen := NewGeneratorService(&config.AIConfig{
		Provider: config.ProviderOpenAI, APIKey: "k", BaseURL: srv.URL, Model: "gpt-test", TimeoutMS: 1000,
	})
	questions, err := gen.Generate(context.Background(), "Networking", 5)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(questions) != 3 {
		t.Errorf("got %d questions, want 3", len(questions))
	}
}

func TestGenerateDiscardsInvalidBatch(t *testing.T) {
	tests := map[string]string{
		"not json":       "I cannot help with that",
		"empty array":    "[]",
		"bad correct":    `[{"domain":"D","question":"Q","option_a":"1","option_b":"2","option_c":"3","option_d":"4","correct_option":"E"}]`,
		"missing option": `[{"domain":"D","question":"Q","option_a":"1","option_b":"2","option_c":"3","option_d":"4","correct_option":"A"},{"domain":"D","question":"Q","option_a":"1","option_b":"","option_c":"3","option_d":"4","correct_option":"A"}]`,
	}

	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			srv := geminiServer(t, text)
			gen := NewGeneratorService(&config.AIConfig{APIKey: "k", BaseURL: srv.URL, Model: "test-model"})
			questions, err := gen.Generate(context.Background(), "topic", 5)
			if err == nil {
				t.Errorf("expected error, got %d questions", len(questions))
			}
		})
	}
}

func TestGenerateProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	gen := NewGeneratorService(&config.AIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	if _, err := gen.Generate(context.Background(), "topic", 1); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestGenerateDisabled(t *testing.T) {
	gen := NewGeneratorService(nil)
	if gen.Enabled() {
		t.Fatal("generator without key reports enabled")
	}
	if _, err := gen.Generate(context.Background(), "topic", 1); !errors.Is(err, ErrAIDisabled) {
		t.Errorf("err = %v, want ErrAIDisabled", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct{ in, want string }{
		{"[]", "[]"},
		{"```json\n[1]\n```", "[1]"},
		{"```\n[1]\n```", "[1]"},
		{"  ```json [1]```  ", "[1]"},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
