package chat

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

// geminiMaxOutputTokens bounds generation cost; the response filter bounds
// what is released regardless.
const geminiMaxOutputTokens = 3000

// Gemini is the Generator backed by the Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter // proactive client-side limit on upstream calls
}

// NewGemini creates a Gemini-backed Generator. Returns an error when apiKey
// is empty; callers treat that as "model unconfigured" rather than fatal.
func NewGemini(ctx context.Context, apiKey, model string, limiter *rate.Limiter) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing API key")
	}
	if model == "" {
		model = DefaultModelName
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Gemini{client: client, model: model, limiter: limiter}, nil
}

// Generate runs a single-turn exchange. The rate limiter wait respects ctx,
// so a caller timeout covers queueing time as well as the call itself.
func (g *Gemini) Generate(ctx context.Context, system, question string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: waiting for rate limiter: %v", ErrModelCallFailed, err)
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(question),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			MaxOutputTokens:   geminiMaxOutputTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelCallFailed, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrModelCallFailed)
	}
	return text, nil
}
