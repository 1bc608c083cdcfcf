package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carhub/car-inventory/internal/car/domain"
	"github.com/carhub/car-inventory/internal/platform/logger"
	"github.com/carhub/car-inventory/internal/user/entity"
	userusecase "github.com/carhub/car-inventory/internal/user/usecase"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps domain errors onto the REST error contract: 400 for
// validation, 401 for credentials, 404 for not-found-or-not-owned, 500
// for everything else. The 404 message never reveals whether the record
// exists under another owner.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	var v *domain.ValidationError
	switch {
	case errors.As(err, &v):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  v.Error(),
			"fields": v.Fields,
		})
	case errors.Is(err, domain.ErrCarNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "car not found"})
	case errors.Is(err, entity.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
	case errors.Is(err, entity.ErrDuplicateEmail):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email already exists"})
	case errors.Is(err, userusecase.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	default:
		log.Error("unexpected error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
