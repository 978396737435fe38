package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/evcraddock/showing-hive/internal/filestore"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/schedule"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{"error": msg, "code": code}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiFail maps a domain error to its status code and writes it.
func apiFail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := schedule.Code(err)
	switch {
	case errors.Is(err, property.ErrNotFound):
		code = "not_found"
	case errors.Is(err, property.ErrInvalid), errors.Is(err, filestore.ErrInvalidName):
		code = "invalid_input"
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		apiError(w, "internal error", code, status)
		return
	}
	apiError(w, err.Error(), code, status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, schedule.ErrNotFound), errors.Is(err, property.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, schedule.ErrInvalidInput), errors.Is(err, property.ErrInvalid),
		errors.Is(err, filestore.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, schedule.ErrInvalidState), errors.Is(err, schedule.ErrTimeBlocked),
		errors.Is(err, schedule.ErrSchedulingConflict), errors.Is(err, schedule.ErrBlockOverlap):
		return http.StatusConflict
	case errors.Is(err, schedule.ErrNotApproved):
		return http.StatusForbidden
	case errors.Is(err, schedule.ErrCodeExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		apiError(w, "invalid JSON body", "invalid_input", http.StatusBadRequest)
		return false
	}
	return true
}

// redactShowing returns a copy of sh without its lockbox code, which is only
// handed out by the lockbox endpoint.
func redactShowing(sh *schedule.Showing) *schedule.Showing {
	c := *sh
	c.LockboxCode = ""
	return &c
}

func redactShowings(list []*schedule.Showing) []*schedule.Showing {
	out := make([]*schedule.Showing, 0, len(list))
	for _, sh := range list {
		out = append(out, redactShowing(sh))
	}
	return out
}
