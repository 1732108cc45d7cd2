package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/toolshelf/internal/domain"
	"github.com/MrSnakeDoc/toolshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolshelf/internal/session"
)

type toolsResponse struct {
	Tools []domain.Tool `json:"tools"`
	Total int           `json:"total"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

type addRequest struct {
	Text string `json:"text"`
}

// APITools lists records filtered by ?q= and ?category=, sorted by title.
// Total is the size of the unfiltered collection.
func APITools(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		tools := d.Tools.Load()
		f := domain.Filter{
			Category: q.Get("category"),
			Text:     strings.TrimSpace(q.Get("q")),
		}
		writeJSON(w, http.StatusOK, toolsResponse{Tools: f.Apply(tools), Total: len(tools)})
	}
}

func APICategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, categoriesResponse{Categories: domain.Categories(d.Tools.Load())})
	}
}

func APILogin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())

		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if !login(r, d, sess, req.Password) {
			writeJSON(w, http.StatusUnauthorized, loginResponse{Error: msgLoginFailed})
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Authenticated: true})
	}
}

func APIAddTool(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())

		var req addRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		tool, err := addTool(r, d, sess, req.Text)
		if err != nil {
			o := addOutcome(err)
			writeError(w, o.status, o.msg)
			return
		}
		writeJSON(w, http.StatusCreated, tool)
	}
}

func APIDeleteTool(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())

		if err := deleteTool(r, d, sess, chi.URLParam(r, "id")); err != nil {
			o := deleteOutcome(err)
			writeError(w, o.status, o.msg)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func APIRateLimited(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusTooManyRequests, msgRateLimited)
}
