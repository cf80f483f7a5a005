package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ccvpets/server/internal/system"
	"github.com/ccvpets/server/internal/world"
)

// Server is the HTTP facade over the registry's command API. It is a thin
// adapter: all game rules live behind the registry.
type Server struct {
	reg *system.Registry
	log *zap.Logger
}

func NewServer(reg *system.Registry, log *zap.Logger) *Server {
	return &Server{reg: reg, log: log}
}

// Router builds the chi router for the command API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/pets/{ownerID}", func(pr chi.Router) {
		pr.Post("/adopt", s.handleAdopt)
		pr.Post("/rename", s.handleRename)
		pr.Post("/interact", s.handleInteract)
		pr.Post("/checkin", s.handleCheckIn)
		pr.Post("/task", s.handleTask)
		pr.Get("/", s.handleStatus)
	})
	return r
}

// requestID tags every request with a fresh id for log correlation.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		s.log.Debug("request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

type adoptRequest struct {
	DisplayName string `json:"display_name"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type interactRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleAdopt(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	var req adoptRequest
	if !decodeBody(w, r, &req) {
		return
	}
	card, err := s.reg.Adopt(r.Context(), ownerID, req.DisplayName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cardResponseFrom(card))
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	var req renameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pet, err := s.reg.Rename(r.Context(), ownerID, req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"species": pet.Species,
		"name":    pet.Name,
	})
}

func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	var req interactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := s.reg.Interact(r.Context(), ownerID, req.Action)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, interactResponseFrom(result))
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	result, err := s.reg.CheckIn(r.Context(), ownerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkInResponseFrom(result))
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	result, err := s.reg.CompleteTask(r.Context(), ownerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"coins": result.Coins,
		"text":  result.Text,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	card, err := s.reg.Status(r.Context(), ownerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cardResponseFrom(card))
}

type errorResponse struct {
	Error       string `json:"error"`
	Species     string `json:"species,omitempty"`
	WaitSeconds int    `json:"wait_seconds,omitempty"`
}

// writeError maps the engine's typed errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var adopted *world.AlreadyAdoptedError
	var limited *world.RateLimitedError
	switch {
	case errors.Is(err, world.ErrNotAdopted):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_adopted"})
	case errors.As(err, &adopted):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already_adopted", Species: adopted.Species})
	case errors.Is(err, world.ErrEmptyName):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "empty_name"})
	case errors.Is(err, world.ErrNameTooLong):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name_too_long"})
	case errors.Is(err, world.ErrUnknownAction):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown_action"})
	case errors.Is(err, world.ErrInsufficientFunds):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Error: "insufficient_funds"})
	case errors.As(err, &limited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate_limited", WaitSeconds: limited.WaitSeconds})
	case errors.Is(err, world.ErrAlreadyCheckedIn):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already_checked_in"})
	default:
		s.log.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true // empty body = zero-valued request
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
