package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/virtline/number-sim/internal/core"
	"github.com/virtline/number-sim/internal/storage"
)

type Server struct {
	Svc   *core.Service
	Store *storage.Store
}

func NewServer(svc *core.Service, store *storage.Store) *Server {
	return &Server{Svc: svc, Store: store}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, instrument)

	r.Post("/users", s.seenUser)
	r.Post("/numbers", s.requestNumber)
	r.Get("/numbers", s.listNumbers)
	r.Get("/numbers/{value}/messages", s.listMessages)
	r.Delete("/numbers/{value}", s.retireNumber)
	r.Get("/stats", s.getStats)

	s.mountHealth(r)
	s.mountMetrics(r)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) seenUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	u := s.Svc.OnUserSeen(in.ID, in.DisplayName)
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) requestNumber(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing_X-User-ID"})
		return
	}
	var in struct {
		Real    bool   `json:"real"`
		Service string `json:"service"`
		Country string `json:"country"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
			return
		}
	}
	n, err := s.Svc.RequestNumber(r.Context(), userID, in.Real, in.Service, in.Country)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUnknownUser):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown_user"})
		case errors.Is(err, core.ErrQuotaExceeded):
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "quota_exceeded"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) listNumbers(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id_required"})
		return
	}
	items := s.Svc.ListNumbers(userID)
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "value")
	items := s.Svc.ListMessages(value)
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) retireNumber(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "value")
	if err := s.Svc.RetireNumber(value); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown_number"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Svc.GetStats())
}
