package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"synergy-backend/internal/middleware"
	"synergy-backend/internal/models"
	"synergy-backend/internal/services"
)

const maxRequestBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string) models.ErrorResponse {
	return models.ErrorResponse{Success: false, Error: message}
}

func errorRespWithTimestamp(message string) models.ErrorResponse {
	now := time.Now().UTC()
	return models.ErrorResponse{Success: false, Error: message, Timestamp: &now}
}

// handleServiceError maps typed service errors to status codes. Wrapped
// causes are logged and never written to the client.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var (
		validationErr *services.ValidationError
		authErr       *services.AuthError
		configErr     *services.ConfigError
		upstreamErr   *services.UpstreamError
		parseErr      *services.ParseError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResp(validationErr.Message))
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusUnauthorized, errorResp(authErr.Message))
	case errors.As(err, &configErr):
		logger.Error("configuration error", requestFields(r, err)...)
		writeJSON(w, http.StatusInternalServerError, errorRespWithTimestamp(configErr.Message))
	case errors.As(err, &upstreamErr):
		logger.Error("upstream model error", requestFields(r, err)...)
		writeJSON(w, http.StatusInternalServerError, errorRespWithTimestamp(upstreamErr.Message))
	case errors.As(err, &parseErr):
		logger.Error("model output rejected", requestFields(r, err)...)
		writeJSON(w, http.StatusInternalServerError, errorRespWithTimestamp(parseErr.Message))
	default:
		logger.Error("unexpected error", requestFields(r, err)...)
		writeJSON(w, http.StatusInternalServerError, errorRespWithTimestamp("An unexpected error occurred"))
	}
}

func requestFields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("request_id", r.Header.Get(middleware.RequestIDHeader)),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}
