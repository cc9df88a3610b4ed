package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-essays/internal/feeds"
	"github.com/goliatone/go-essays/posts"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	filter := posts.ListFilter{
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
	}
	if year := r.URL.Query().Get("year"); year != "" {
		parsed, err := strconv.Atoi(year)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "year must be numeric"})
			return
		}
		filter.Year = parsed
	}
	filter.Limit = parseIntQuery(r.URL.Query().Get("limit"), 0)
	filter.Offset = parseIntQuery(r.URL.Query().Get("offset"), 0)

	records, err := s.posts.ListPosts(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := s.posts.GetPostBySlug(r.Context(), slug)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !post.Visible() {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.posts.Categories(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCategoryPosts(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	records, err := s.posts.ListPosts(r.Context(), posts.ListFilter{Category: category})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(records) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "no posts in category"})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	archive, err := s.posts.Archive(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, archive)
}

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	body, err := s.feeds.RSS(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeXML(w, body)
}

func (s *Server) handleAtom(w http.ResponseWriter, r *http.Request) {
	body, err := s.feeds.Atom(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeXML(w, body)
}

func (s *Server) handleCategoryRSS(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	body, err := s.feeds.CategoryRSS(r.Context(), category)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeXML(w, body)
}

// handleResolve serves unmatched paths: legacy aliases answer with a
// permanent redirect to the canonical post URL.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	resolution, err := s.posts.ResolvePath(r.Context(), r.URL.Path)
	if err != nil {
		if errors.Is(err, posts.ErrPathUnresolved) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
			return
		}
		s.writeError(w, err)
		return
	}
	if resolution.Redirect {
		http.Redirect(w, r, resolution.CanonicalPath, http.StatusMovedPermanently)
		return
	}
	writeJSON(w, http.StatusOK, resolution.Post)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, posts.ErrPostNotFound),
		errors.Is(err, posts.ErrPathUnresolved),
		errors.Is(err, feeds.ErrCategoryUnknown):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
	default:
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeXML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func parseIntQuery(value string, fallback int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
