package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/repositories"
)

// apiResponse is the uniform envelope carried by every response, success or
// failure.
type apiResponse struct {
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload := apiResponse{Status: status, Data: data, Message: message}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation:     http.StatusBadRequest,
	apperr.KindAuthentication: http.StatusUnauthorized,
	apperr.KindAuthorization:  http.StatusForbidden,
	apperr.KindNotFound:       http.StatusNotFound,
	apperr.KindConflict:       http.StatusConflict,
	apperr.KindInternal:       http.StatusInternalServerError,
}

// respondError maps a failure to its transport status exactly once. Unknown
// errors become an opaque 500; no internal detail reaches the client.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "something went wrong"

	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		status = kindStatus[appErr.Kind]
		message = appErr.Message
	case errors.Is(err, repositories.ErrNotFound):
		status = http.StatusNotFound
		message = "resource not found"
	case errors.Is(err, repositories.ErrConflict):
		status = http.StatusConflict
		message = "resource already exists"
	}

	logger := logging.FromContext(ctx)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "message", message)
	}

	respondJSON(ctx, w, status, nil, message)
}

// decodeJSON parses a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
