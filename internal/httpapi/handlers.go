package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"cinepick/internal/history"
	"cinepick/internal/language"
	"cinepick/internal/logging"
	"cinepick/internal/metadata"
	"cinepick/internal/recommend"
	"cinepick/internal/services"
)

const maxBodyBytes = 64 << 10

// RecommendRequest is the POST /api/recommendations body.
type RecommendRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// SearchResponse is the GET /api/search payload.
type SearchResponse struct {
	Query      string               `json:"query"`
	Language   language.Option      `json:"language"`
	Candidates []metadata.Candidate `json:"candidates"`
	Error      string               `json:"error,omitempty"`
}

// TrailerResponse is the GET /api/movies/{id}/trailer payload.
type TrailerResponse struct {
	MovieID int64  `json:"movie_id"`
	URL     string `json:"url,omitempty"`
	Found   bool   `json:"found"`
	Error   string `json:"error,omitempty"`
}

// HistoryListResponse is the GET /api/history payload.
type HistoryListResponse struct {
	Entries []history.Entry `json:"entries"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var body RecommendRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang, err := language.Resolve(body.Language)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.recommender.Recommend(r.Context(), recommend.Request{Text: body.Text, Language: lang})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	lang, err := language.Resolve(r.URL.Query().Get("language"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	search := s.metadata.SearchMovie(r.Context(), query, lang.Code)
	resp := SearchResponse{Query: query, Language: lang, Candidates: search.Candidates}
	if resp.Candidates == nil {
		resp.Candidates = []metadata.Candidate{}
	}
	if !search.OK() {
		resp.Error = search.Err.Error()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrailer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	trailer := s.metadata.FetchTrailer(r.Context(), id)
	resp := TrailerResponse{MovieID: id, URL: trailer.URL, Found: trailer.Found}
	if trailer.Err != nil {
		resp.Error = trailer.Err.Error()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "history is disabled")
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	entries, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	s.writeJSON(w, http.StatusOK, HistoryListResponse{Entries: entries})
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "history is disabled")
		return
	}
	result, err := s.history.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	if !errors.Is(err, services.ErrValidation) && !errors.Is(err, services.ErrNotFound) {
		s.logger.Debug("request failed", logging.Int("status", status), logging.Error(err))
	}
	s.writeError(w, status, err.Error())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
