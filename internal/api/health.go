package api

import (
	"log/slog"
	"net/http"

	"github.com/shagarchive/shagqa/internal/archive"
	"github.com/shagarchive/shagqa/internal/chat"
)

// healthResponse is the status snapshot consumed by the UI.
type healthResponse struct {
	Status        string `json:"status"`
	DataLoaded    bool   `json:"data_loaded"`
	DocumentCount int    `json:"document_count"`
	APIConfigured bool   `json:"api_configured"`
	TotalRecords  int    `json:"total_records"`
}

type healthHandler struct {
	logger *slog.Logger
	loader *archive.Loader
	chat   *chat.Handler
}

func (h *healthHandler) health(w http.ResponseWriter, r *http.Request) {
	loaded, _ := h.loader.Loaded()

	extracted := 0
	for _, doc := range h.loader.Documents() {
		if doc.Text != "" {
			extracted++
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "healthy",
		DataLoaded:    loaded,
		DocumentCount: extracted,
		APIConfigured: h.chat.Configured(),
		TotalRecords:  len(h.loader.Records()),
	}, h.logger)
}
