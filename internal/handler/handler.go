package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/integrations/tally"
	"github.com/coachms/coaching-service/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

type Handler struct {
	svc      *service.Service
	tally    *tally.Exporter
	validate *validator.Validate
}

func NewHandler(svc *service.Service, tallyExporter *tally.Exporter) *Handler {
	return &Handler{
		svc:      svc,
		tally:    tallyExporter,
		validate: validator.New(),
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps the domain error taxonomy onto HTTP status codes.
// Anything unrecognized is an infrastructure failure and surfaces as 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidOperation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// decode parses and validates a JSON request body
func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", apperrors.ErrValidation, err)
	}
	if err := h.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", apperrors.ErrValidation, name)
	}
	return id, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", apperrors.ErrValidation, value)
	}
	return t, nil
}

// callerID extracts the authenticated user id stored by the auth middleware
func callerID(r *http.Request) *int64 {
	sub, _ := r.Context().Value("userID").(string)
	if sub == "" {
		return nil
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
