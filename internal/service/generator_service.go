package service

import (
	"bytes"
	"certprep/internal/config"
	"certprep/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Generator produces ad hoc exam questions for a topic
type Generator interface {
	Enabled() bool
	Generate(ctx context.Context, topic string, count int) ([]model.Question, error)
}

// maxResponseBytes bounds how much of a provider response is read
const maxResponseBytes = 4 << 20

// GeneratorService calls the configured AI provider (Gemini or OpenAI)
type GeneratorService struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeneratorService creates a generator for cfg. A nil or keyless config
// yields a disabled generator.
func NewGeneratorService(cfg *config.AIConfig) *GeneratorService {
	if cfg == nil {
		cfg = &config.AIConfig{}
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeneratorService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a credential is configured
func (s *GeneratorService) Enabled() bool {
	return s.config.IsEnabled()
}

// Generate asks the provider for count questions about topic. The batch is
// all-or-nothing: one invalid question discards every question.
func (s *GeneratorService) Generate(ctx context.Context, topic string, count int) ([]model.Question, error) {
	if !s.Enabled() {
		return nil, ErrAIDisabled
	}
	if count <= 0 {
		count = 1
	}

	prompt := buildQuestionPrompt(topic, count)

	var (
		response string
		err      error
	)
	switch s.config.Provider {
	case config.ProviderOpenAI:
		response, err = s.callOpenAI(ctx, prompt)
	default:
		response, err = s.callGemini(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}

	questions, err := parseGeneratedQuestions(response, topic, count)
	if err != nil {
		return nil, err
	}
	log.Printf("[AI] Generated %d questions on %q via %s", len(questions), topic, s.config.Provider)
	return questions, nil
}

// callGemini makes a request to the Gemini generateContent API
func (s *GeneratorService) callGemini(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := s.do(req)
	if err != nil {
		return "", err
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to decode Gemini response: %w", err)
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// callOpenAI makes a request to the OpenAI chat completions API
func (s *GeneratorService) callOpenAI(ctx context.Context, prompt string) (string, error) {
	request := chatRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You write certification exam practice questions and answer only with JSON."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.ChatEndpoint(), bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	body, err := s.do(req)
	if err != nil {
		return "", err
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return response.Choices[0].Message.Content, nil
}

func (s *GeneratorService) do(req *http.Request) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return body, nil
}

// generatedQuestion is the shape the prompt asks for
type generatedQuestion struct {
	Domain        string `json:"domain"`
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectOption string `json:"correct_option"`
	Explanation   string `json:"explanation"`
}

// parseGeneratedQuestions turns raw model output into validated questions
func parseGeneratedQuestions(raw, topic string, count int) ([]model.Question, error) {
	text := stripCodeFence(raw)

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(text), &generated); err != nil {
		// Some models wrap the array in an object
		var wrapped struct {
			Questions []generatedQuestion `json:"questions"`
		}
		if err2 := json.Unmarshal([]byte(text), &wrapped); err2 != nil {
			return nil, fmt.Errorf("malformed question JSON: %w", err)
		}
		generated = wrapped.Questions
	}
	if len(generated) == 0 {
		return nil, fmt.Errorf("no questions generated")
	}
	if len(generated) > count {
		generated = generated[:count]
	}

	topic = strings.TrimSpace(topic)
	questions := make([]model.Question, 0, len(generated))
	for i, g := range generated {
		q := model.Question{
			ID:            int64(i + 1),
			Domain:        g.Domain,
			Question:      g.Question,
			OptionA:       g.OptionA,
			OptionB:       g.OptionB,
			OptionC:       g.OptionC,
			OptionD:       g.OptionD,
			CorrectOption: g.CorrectOption,
			Explanation:   g.Explanation,
		}
		q.Normalize()
		if q.Domain == "" {
			q.Domain = topic
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("generated question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func buildQuestionPrompt(topic string, count int) string {
	return fmt.Sprintf(`You are writing practice questions for a professional certification exam.
Return ONLY a valid JSON array with exactly %d objects matching this schema:
[
  {
    "domain": "short domain name",
    "question": "question text",
    "option_a": "first option",
    "option_b": "second option",
    "option_c": "third option",
    "option_d": "fourth option",
    "correct_option": "A" or "B" or "C" or "D",
    "explanation": "why the correct option is right"
  }
]

Topic: %s

Each question must have exactly one correct option. Do not repeat questions.`, count, topic)
}
