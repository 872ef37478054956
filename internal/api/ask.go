package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shagarchive/shagqa/internal/chat"
	"github.com/shagarchive/shagqa/internal/quota"
	"github.com/shagarchive/shagqa/internal/security"
)

// maxAskBody bounds the request body; questions are capped at 1000 chars so
// anything near this size is already invalid.
const maxAskBody = 64 * 1024

// askRequest is the inbound body from the web layer.
type askRequest struct {
	Question string `json:"question"`
}

// askHandler runs the request gate and hands accepted questions to the
// orchestrator. Gate order: rate limit, daily quota, input validation.
// Rejections never reach the language model.
type askHandler struct {
	logger     *slog.Logger
	chat       *chat.Handler
	knowledge  func() string
	limiter    *security.RateLimiter
	quota      *quota.Counter
	trustProxy bool
}

func (h *askHandler) ask(w http.ResponseWriter, r *http.Request) {
	identity := clientIP(r, h.trustProxy)
	now := time.Now()

	if !h.limiter.Allow(identity, now) {
		h.logger.Warn("rate limit exceeded", "ip", identity)
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests,
			"Rate limit exceeded. Please wait before making more requests.",
			statusRateLimited, h.logger)
		return
	}

	remaining := -1
	if h.quota != nil {
		ok, used, err := h.quota.Allow(r.Context(), now)
		if err != nil {
			h.logger.Error("quota check failed", "error", err)
			writeError(w, http.StatusInternalServerError, "server error", statusError, h.logger)
			return
		}
		if !ok {
			h.logger.Warn("daily quota exhausted", "used", used)
			writeError(w, http.StatusTooManyRequests,
				"Daily message limit reached. Try again tomorrow!",
				statusRateLimited, h.logger)
			return
		}
		remaining = h.quota.Limit() - used
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAskBody)
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", statusInvalid, h.logger)
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "no question provided", statusInvalid, h.logger)
		return
	}

	if err := security.ValidateQuestion(question); err != nil {
		h.logger.Warn("question rejected", "ip", identity, "error", err)
		writeError(w, http.StatusBadRequest, err.Error(), statusInvalid, h.logger)
		return
	}

	// Queries before the knowledge base is built fail fast and visibly
	// rather than running against incomplete context.
	if h.knowledge() == "" {
		writeError(w, http.StatusServiceUnavailable, "service not ready", statusError, h.logger)
		return
	}

	answer, counted := h.chat.Answer(r.Context(), question)

	if counted && h.quota != nil {
		if err := h.quota.Record(r.Context(), now); err != nil {
			// The answer is already produced; log and release it anyway.
			h.logger.Error("quota record failed", "error", err)
		} else {
			remaining--
		}
	}

	resp := answerResponse{Answer: answer}
	if h.quota != nil && remaining >= 0 {
		resp.Remaining = remaining
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}
