package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spachava753/addressbook/contacts"
	"github.com/spachava753/addressbook/dispatch"
)

// ErrorResponse represents an API error. Error carries the message; Code
// is a stable machine-readable classification.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// FieldResponse describes one searchable field.
type FieldResponse struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Column   string `json:"column"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	fields := contacts.SearchFields()
	resp := make([]FieldResponse, 0, len(fields))
	for _, f := range fields {
		resp = append(resp, FieldResponse{
			Name:     f.String(),
			Relation: string(f.Relation()),
			Column:   string(f.Column()),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": resp})
}

// handleGetAll returns every contact.
func (s *Server) handleGetAll(w http.ResponseWriter, r *http.Request) {
	result, err := dispatch.Run(r.Context(), s.book.GetAll)
	if err != nil {
		s.writeBookError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleFind returns contacts whose property starts with value.
func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	property, value := q.Get("property"), q.Get("value")
	if property == "" {
		writeError(w, http.StatusBadRequest, "missing_property", "Query parameter 'property' is required")
		return
	}

	result, err := dispatch.Run(r.Context(), func() (contacts.Collection, error) {
		return s.book.FindByName(property, value)
	})
	if err != nil {
		s.writeBookError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeBookError maps core and context errors onto HTTP statuses.
func (s *Server) writeBookError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, contacts.ErrUnsupportedField):
		writeError(w, http.StatusBadRequest, string(contacts.ErrorCodeUnsupportedField), err.Error())
	case errors.Is(err, contacts.ErrStorageUnavailable):
		s.logger.Error("contact lookup failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, string(contacts.ErrorCodeStorageUnavailable), "Contact storage is unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", "Contact lookup did not finish in time")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		s.logger.Debug("request canceled", "path", r.URL.Path)
	default:
		s.logger.Error("contact lookup failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Contact lookup failed")
	}
}
