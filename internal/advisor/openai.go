package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/projectred/donor-api/config"
	"github.com/projectred/donor-api/pkg/circuitbreaker"
	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
)

// OpenAIClient talks to an OpenAI-compatible chat-completions endpoint.
// It implements both advisor interfaces; a single breaker covers them
// since they hit the same upstream.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

func NewOpenAIClient(cfg config.AdvisorConfig) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "advisor",
			MaxFailures: 3,
			Cooldown:    time.Minute,
		}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	var content string
	err = c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to build advisor request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("advisor request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("advisor returned status %d", resp.StatusCode)
		}

		var parsed chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return fmt.Errorf("failed to decode advisor response: %w", err)
		}
		if len(parsed.Choices) == 0 {
			return fmt.Errorf("advisor returned no choices")
		}
		content = strings.TrimSpace(parsed.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", apperrors.AdvisorUnavailable(err)
	}
	return content, nil
}

// RecommendHospital asks the model to pick the best hospital by number and
// maps the reply back onto the candidate list. A reply that is not a valid
// candidate number is an error; the caller falls back to the nearest.
func (c *OpenAIClient) RecommendHospital(ctx context.Context, candidates []model.HospitalCandidate) (uuid.UUID, error) {
	if len(candidates) == 0 {
		return uuid.Nil, apperrors.AdvisorUnavailable(fmt.Errorf("no candidates"))
	}

	var sb strings.Builder
	for i, cand := range candidates {
		fmt.Fprintf(&sb, "%d. %s (%s): donor travels %.1f km, patient travels %.1f km, combined %.1f km\n",
			i+1, cand.Name, cand.Address, cand.DonorDistance, cand.PatientDistance, cand.TotalDistance)
	}

	system := "You coordinate blood donations. Given a numbered list of hospitals with travel " +
		"distances for the donor and the patient, pick the hospital that best balances both " +
		"journeys. Reply with the number only."
	reply, err := c.complete(ctx, system, sb.String(), 8)
	if err != nil {
		return uuid.Nil, err
	}

	idx, err := parseChoice(reply, len(candidates))
	if err != nil {
		return uuid.Nil, apperrors.AdvisorUnavailable(err)
	}
	return candidates[idx].ID, nil
}

func parseChoice(reply string, n int) (int, error) {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if len(fields) == 0 {
		return 0, fmt.Errorf("no choice number in reply %q", reply)
	}
	choice, err := strconv.Atoi(fields[0])
	if err != nil || choice < 1 || choice > n {
		return 0, fmt.Errorf("choice %q out of range 1..%d", fields[0], n)
	}
	return choice - 1, nil
}

type assessmentReply struct {
	Summary             string `json:"summary"`
	NotificationMessage string `json:"notification_message"`
	Confidence          int    `json:"confidence"`
	HasAbnormalities    bool   `json:"has_abnormalities"`
}

// AssessHealth asks the model for a structured JSON assessment of the
// donor's lab values.
func (c *OpenAIClient) AssessHealth(ctx context.Context, profile *model.HealthProfile) (*model.Assessment, error) {
	input, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal health profile: %w", err)
	}

	system := "You are a medical screening assistant reviewing a blood donor's lab results. " +
		"Respond with a JSON object containing: summary (2-3 sentences for a clinician), " +
		"notification_message (one friendly sentence for the donor, no jargon), " +
		"confidence (integer 0-100), has_abnormalities (boolean). Respond with JSON only."
	reply, err := c.complete(ctx, system, string(input), 400)
	if err != nil {
		return nil, err
	}

	var parsed assessmentReply
	if err := json.Unmarshal([]byte(extractJSON(reply)), &parsed); err != nil {
		return nil, apperrors.AdvisorUnavailable(fmt.Errorf("failed to parse assessment reply: %w", err))
	}

	return &model.Assessment{
		Summary:             parsed.Summary,
		NotificationMessage: parsed.NotificationMessage,
		FullText:            reply,
		Confidence:          parsed.Confidence,
		HasAbnormalities:    parsed.HasAbnormalities,
	}, nil
}

// extractJSON strips markdown fences some models wrap around JSON replies.
func extractJSON(reply string) string {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start >= 0 && end > start {
		return reply[start : end+1]
	}
	return reply
}
