package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"worktracker/internal/core"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		loginsTotal.WithLabelValues("failure").Inc()
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	loginsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context()); err != nil {
		s.logger.Error("Logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := s.auth.RestoreSession(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.repo.Entries(actor))
}

func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	var entry core.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "malformed entry")
		return
	}
	// Non-admin callers record work for themselves.
	if actor.Role != core.RoleAdmin && entry.UserID == 0 {
		entry.UserID = actor.ID
	}

	saved, err := s.repo.SaveEntry(r.Context(), entry)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	entriesSavedTotal.Inc()
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	if actor.Role != core.RoleAdmin {
		writeError(w, http.StatusForbidden, core.ErrAccessDenied.Error())
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	if err := s.repo.DeleteEntry(r.Context(), id); err != nil {
		writeCoreError(w, err)
		return
	}
	entriesDeletedTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.actor(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.repo.Users())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	summary := s.repo.Summary(actor)
	writeJSON(w, http.StatusOK, summaryResponse{
		Summary: summary,
		Formatted: formattedSummary{
			Agreed:      core.FormatMoney(summary.AgreedCents),
			Received:    core.FormatMoney(summary.ReceivedCents),
			Outstanding: core.FormatMoney(summary.OutstandingCents),
			Commission:  core.FormatMoney(summary.CommissionCents),
		},
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	if actor.Role != core.RoleAdmin {
		writeError(w, http.StatusForbidden, core.ErrAccessDenied.Error())
		return
	}

	if err := s.repo.Reset(r.Context()); err != nil {
		writeCoreError(w, err)
		return
	}
	resetsTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

type summaryResponse struct {
	Summary   core.Summary     `json:"summary"`
	Formatted formattedSummary `json:"formatted"`
}

type formattedSummary struct {
	Agreed      string `json:"agreed"`
	Received    string `json:"received"`
	Outstanding string `json:"outstanding"`
	Commission  string `json:"commission"`
}

// actor resolves the acting user from the session. Handlers bail out with
// 401 when no session exists.
func (s *Server) actor(w http.ResponseWriter, r *http.Request) (core.User, bool) {
	sess := s.auth.RestoreSession(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return core.User{}, false
	}
	u := sess.User
	return core.User{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, Name: u.Name}, true
}

func writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrAccessDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, core.ErrUnknownUser),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCommission),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidRole):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
