package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"
)

// ErrMalformedResponse means the model's output could not be parsed as
// the expected JSON structure. Callers are expected to present a
// fallback experience rather than retry.
var ErrMalformedResponse = errors.New("generation output failed to parse")

// RecommendedPlace is one suggestion from theme analysis.
type RecommendedPlace struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Tags        []string `json:"tags"`
}

// GeneratedPlace is one stop inside a generated day. Coordinates are
// optional; the model frequently omits or invents them, so downstream
// normalization fills defaults.
type GeneratedPlace struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Time        string   `json:"time"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

// GeneratedDay is one day of a generated schedule.
type GeneratedDay struct {
	Day    int              `json:"day"`
	Places []GeneratedPlace `json:"places"`
}

// Verification is the fact-check verdict for a place name.
type Verification struct {
	Exists            bool   `json:"exists"`
	VerificationScore int    `json:"verification_score"`
	Reason            string `json:"reason"`
}

// Generator is the text-generation collaborator. Implementations are
// opaque; output is untrusted and must be normalized by the caller.
type Generator interface {
	AnalyzeTheme(ctx context.Context, theme, location string) ([]RecommendedPlace, error)
	GenerateSchedule(ctx context.Context, theme, location, duration string) ([]GeneratedDay, error)
	VerifyPlace(ctx context.Context, placeName, searchContext string) (Verification, error)
}

// Client talks to a Groq-compatible chat-completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion request failed: %s", resp.Status)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// stripFences removes markdown code fences the model sometimes wraps
// around its JSON output.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func (c *Client) AnalyzeTheme(ctx context.Context, theme, location string) ([]RecommendedPlace, error) {
	prompt := fmt.Sprintf(`The travel theme is %q and the desired region is %q.
Recommend 5 travel places that fit this theme and region.

Respond with ONLY a JSON array in this exact shape, no markdown, no extra text:

[
  {
    "name": "place name",
    "description": "one-line description tied to the theme",
    "address": "approximate address (city/district)",
    "tags": ["tag1", "tag2"]
  }
]`, theme, location)

	text, err := c.complete(ctx, prompt, 0.5)
	if err != nil {
		return nil, err
	}

	var places []RecommendedPlace
	if err := json.Unmarshal([]byte(stripFences(text)), &places); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return places, nil
}

func (c *Client) GenerateSchedule(ctx context.Context, theme, location, duration string) ([]GeneratedDay, error) {
	prompt := fmt.Sprintf(`Travel theme: %q
Travel region: %q
Travel duration: %q

Create the best travel schedule for the above. Keep the routing realistic:
consider travel distance between stops and opening hours.

Respond with ONLY a JSON array in this exact shape, no markdown, no extra text:

[
  {
    "day": 1,
    "places": [
      {
        "name": "place name",
        "description": "one-line description",
        "time": "expected visit time (e.g. 10:00 AM)"
      }
    ]
  }
]`, theme, location, duration)

	text, err := c.complete(ctx, prompt, 0.5)
	if err != nil {
		return nil, err
	}

	var days []GeneratedDay
	if err := json.Unmarshal([]byte(stripFences(text)), &days); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return days, nil
}

// VerifyPlace asks the model whether a place actually exists, using the
// given search context when available. On any failure it returns a
// neutral verdict instead of an error, matching the forgiving behavior
// verification has always had.
func (c *Client) VerifyPlace(ctx context.Context, placeName, searchContext string) (Verification, error) {
	var contextBlock string
	if searchContext != "" {
		contextBlock = "\n[Search results]\n" + searchContext + "\n"
	}

	prompt := fmt.Sprintf(`Place name: %q
%s
Combining the search results above (if any) with your own knowledge,
determine whether this place actually exists and is currently operating.

Respond with ONLY a JSON object in this exact shape:

{
  "exists": true,
  "verification_score": 0,
  "reason": "one-line summary of the judgment"
}`, placeName, contextBlock)

	text, err := c.complete(ctx, prompt, 0.1)
	if err != nil {
		return neutralVerification(), nil
	}

	var v Verification
	if err := json.Unmarshal([]byte(stripFences(text)), &v); err != nil {
		return neutralVerification(), nil
	}
	return v, nil
}

func neutralVerification() Verification {
	return Verification{Exists: true, VerificationScore: 50, Reason: "Verification failed"}
}
