package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/toolshelf/internal/httpserver/deps"
)

type componentStatus struct {
	OK       bool   `json:"ok"`
	Mode     string `json:"mode,omitempty"`
	Records  *int   `json:"records,omitempty"`
	LastSave string `json:"last_save,omitempty"`
	Path     string `json:"path,omitempty"`
	Impact   string `json:"impact,omitempty"`
	Error    string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := d.Tools.Stats()
		lastSave := "never"
		if !stats.LastSave.IsZero() {
			lastSave = stats.LastSave.Format(time.RFC3339)
		}

		components := map[string]componentStatus{
			"store": {
				OK:       true,
				Records:  &stats.Records,
				LastSave: lastSave,
				Path:     stats.Path,
			},
			"sessions": checkSessions(r.Context(), d),
			"enrichment": {
				OK:   d.Enricher != nil,
				Mode: d.AIProvider,
			},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if e, ok := components["enrichment"]; ok && !e.OK {
		return "read-only"
	}
	if s, ok := components["sessions"]; ok && !s.OK {
		return "degraded"
	}
	return "ok"
}

func checkSessions(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: true, Mode: "memory", Impact: "sessions-lost-on-restart"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "redis",
			Impact: "logins-not-persisted",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "redis"}
}
