// Package chat orchestrates one question-answer exchange with the language
// model: prompt assembly from the knowledge base, the model call itself, and
// output filtering.
//
// Answer never returns an error. Every failure on the model side is
// converted into answer-shaped text at this boundary so callers never see an
// unhandled fault from the model subsystem.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/shagarchive/shagqa/internal/archive"
	"github.com/shagarchive/shagqa/internal/log"
	"github.com/shagarchive/shagqa/internal/security"
)

// ErrModelCallFailed wraps any failure from the Generator.
var ErrModelCallFailed = errors.New("model call failed")

const (
	// DefaultCallTimeout bounds a single model call. The call is the sole
	// latency-dominant operation in the request path.
	DefaultCallTimeout = 30 * time.Second

	// DefaultSampleSize is how many leading records are appended to the
	// system context as grounding data.
	DefaultSampleSize = 5

	// unconfiguredAnswer is returned when no model credential was available
	// at startup. Deterministic: no network call is attempted.
	unconfiguredAnswer = "Error: API not configured. Please check environment variables."

	// failedAnswer is returned when the model call errors or times out.
	failedAnswer = "Sorry, I could not process that question right now. Please try again in a moment."
)

// Generator is the capability the orchestrator needs from a language model:
// a single-turn exchange of (system context, user question) for generated
// text. Implementations must honor ctx cancellation.
type Generator interface {
	Generate(ctx context.Context, system, question string) (string, error)
}

// Handler answers questions that already passed the request gate.
type Handler struct {
	gen         Generator // nil means no credential was configured
	knowledge   func() string
	sample      func() []archive.ContestRecord
	cache       *answerCache
	callTimeout time.Duration
	logger      log.Logger
}

// Config wires a Handler.
type Config struct {
	Generator   Generator                      // nil disables model calls
	Knowledge   func() string                  // current knowledge base
	Sample      func() []archive.ContestRecord // grounding sample
	CallTimeout time.Duration                  // 0 = DefaultCallTimeout
	CacheTTL    time.Duration                  // 0 disables the answer cache
	Logger      log.Logger
}

// NewHandler creates the orchestrator.
func NewHandler(cfg Config) *Handler {
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	var cache *answerCache
	if cfg.CacheTTL > 0 {
		cache = newAnswerCache(cfg.CacheTTL, defaultCacheSize)
	}

	return &Handler{
		gen:         cfg.Generator,
		knowledge:   cfg.Knowledge,
		sample:      cfg.Sample,
		cache:       cache,
		callTimeout: timeout,
		logger:      cfg.Logger,
	}
}

// Configured reports whether a model client is available.
func (h *Handler) Configured() bool {
	return h.gen != nil
}

// Answer runs one gated question through the model and returns filtered
// text. The returned bool is false when the answer came from a failure path
// and should not count against the daily quota.
func (h *Handler) Answer(ctx context.Context, question string) (string, bool) {
	if h.gen == nil {
		return unconfiguredAnswer, false
	}

	if h.cache != nil {
		if answer, ok := h.cache.get(question); ok {
			h.logger.Debug("answer served from cache")
			return answer, true
		}
	}

	system := h.systemContext()

	callCtx, cancel := context.WithTimeout(ctx, h.callTimeout)
	defer cancel()

	start := time.Now()
	raw, err := h.gen.Generate(callCtx, system, question)
	if err != nil {
		h.logger.Error("model call failed",
			"error", err,
			"elapsed", time.Since(start),
		)
		return failedAnswer, false
	}

	h.logger.Info("model call completed",
		"elapsed", time.Since(start),
		"response_chars", len(raw),
	)

	answer := security.FilterResponse(raw)
	if h.cache != nil {
		h.cache.put(question, answer)
	}
	return answer, true
}

// systemContext composes the static instruction text, the current knowledge
// base, and the grounding sample.
func (h *Handler) systemContext() string {
	var kb string
	if h.knowledge != nil {
		kb = h.knowledge()
	}

	var sample []archive.ContestRecord
	if h.sample != nil {
		sample = h.sample()
	}

	return buildSystemPrompt(kb, sample)
}
