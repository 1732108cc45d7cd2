package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/toolshelf/internal/domain"
	"github.com/MrSnakeDoc/toolshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolshelf/internal/logger"
	"github.com/MrSnakeDoc/toolshelf/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type pageView struct {
	Authenticated bool
	Flash         *session.Flash
	Query         string
	Category      string
	Categories    []string
	Tools         []domain.Tool
	Empty         bool // nothing stored at all
}

// Index renders the collection with the current search and category filter.
// A q parameter replaces the search text kept in the session.
func Index(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		query := r.URL.Query()

		if query.Has("q") {
			sess.SearchQuery = strings.TrimSpace(query.Get("q"))
		}
		category := query.Get("category")
		if category == "" {
			category = domain.AllCategories
		}

		tools := d.Tools.Load()
		view := pageView{
			Authenticated: d.Guard.Allow(sess),
			Flash:         sess.PopFlash(),
			Query:         sess.SearchQuery,
			Category:      category,
			Categories:    append([]string{domain.AllCategories}, domain.Categories(tools)...),
			Tools:         domain.Filter{Category: category, Text: sess.SearchQuery}.Apply(tools),
			Empty:         len(tools) == 0,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := indexTmpl.Execute(w, view); err != nil {
			d.Logger.Error("failed to render index", logger.Error(err))
		}
	}
}

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		if login(r, d, sess, r.PostFormValue("password")) {
			sess.SetFlash(session.FlashSuccess, msgLoginOK)
		} else {
			sess.SetFlash(session.FlashError, msgLoginFailed)
		}
		backToIndex(w, r)
	}
}

func AddTool(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		_, err := addTool(r, d, sess, r.PostFormValue("text"))
		o := addOutcome(err)
		sess.SetFlash(o.level, o.msg)
		backToIndex(w, r)
	}
}

func DeleteTool(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())

		o := deleteOutcome(deleteTool(r, d, sess, chi.URLParam(r, "id")))
		sess.SetFlash(o.level, o.msg)
		backToIndex(w, r)
	}
}

// FormRateLimited answers a throttled form post with a flash instead of a
// bare 429 page.
func FormRateLimited(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).SetFlash(session.FlashWarning, msgRateLimited)
	backToIndex(w, r)
}
