package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"DailyPush/internal/config"
	"DailyPush/internal/domain"
	"DailyPush/internal/ports"
)

const generateTimeout = 30 * time.Second

// Advisor asks an OpenAI-compatible chat API for a short weather blurb.
type Advisor struct {
	endpoint   string
	model      string
	apiKey     string
	persona    string
	httpClient *http.Client
}

var _ ports.AdviceGenerator = (*Advisor)(nil)

// NewAdvisor builds a client from configuration.
func NewAdvisor(cfg config.AIConfig) *Advisor {
	return &Advisor{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		persona:  cfg.Persona,
		httpClient: &http.Client{
			Timeout: generateTimeout,
		},
	}
}

// Generate sends the weather record as prompt context and returns the model's
// advice text.
func (a *Advisor) Generate(ctx context.Context, weather domain.WeatherRecord) (string, error) {
	if a == nil {
		return "", fmt.Errorf("advisor is nil")
	}
	if a.apiKey == "" || a.endpoint == "" || a.model == "" {
		return "", fmt.Errorf("advisor misconfigured")
	}

	prompt, err := buildPrompt(a.persona, weather)
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"model": a.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &domain.UpstreamRejection{Code: resp.StatusCode, Message: strings.TrimSpace(string(detail))}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &domain.ShapeError{Reason: fmt.Sprintf("decode completion: %v", err)}
	}

	if len(parsed.Choices) == 0 {
		return "", &domain.ShapeError{Reason: "no choices in completion"}
	}

	advice := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if advice == "" {
		return "", &domain.ShapeError{Reason: "empty completion content"}
	}

	return advice, nil
}

func buildPrompt(persona string, weather domain.WeatherRecord) (string, error) {
	weatherJSON, err := json.Marshal(weather)
	if err != nil {
		return "", err
	}

	persona = strings.TrimSpace(persona)
	if persona == "" {
		persona = "You are a friendly assistant."
	}

	return fmt.Sprintf(
		"%s Based on the weather data below, write at most 100 words of advice "+
			"for the day: whether it suits going out, a short comment on the "+
			"conditions, and what to wear.\nWeather data: %s",
		persona, weatherJSON), nil
}
