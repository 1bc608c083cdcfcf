package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/carhub/car-inventory/internal/adapter/httpapi/middleware"
	"github.com/carhub/car-inventory/internal/car/domain"
	"github.com/carhub/car-inventory/internal/platform/logger"
	"github.com/carhub/car-inventory/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxPhotoUploadBytes = 10 << 20 // 10MB

// CarService is the listing contract the handlers depend on.
type CarService interface {
	Create(ctx context.Context, ownerID string, draft domain.CarDraft) (*domain.Car, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Car, error)
	GetByID(ctx context.Context, id, ownerID string) (*domain.Car, error)
	Update(ctx context.Context, id, ownerID string, patch domain.CarPatch) (*domain.Car, error)
	Delete(ctx context.Context, id, ownerID string) error
	Search(ctx context.Context, ownerID, query string) ([]*domain.Car, error)
}

// PhotoService attaches uploaded photos to cars.
type PhotoService interface {
	AttachPhoto(ctx context.Context, id, ownerID, fileName string, data []byte) (*domain.Car, error)
}

type CarHandler struct {
	cars    CarService
	photos  PhotoService
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

func NewCarHandler(cars CarService, photos PhotoService, m *metrics.MetricsManager, log *logger.Logger) *CarHandler {
	return &CarHandler{
		cars:    cars,
		photos:  photos,
		metrics: m,
		logger:  log.Named("CarHandler"),
	}
}

func (h *CarHandler) HandleCreateCar(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())

	var draft domain.CarDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.logger.Warn("invalid request body for create", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	car, err := h.cars.Create(r.Context(), ownerID, draft)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.metrics.CarsCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, car)
}

func (h *CarHandler) HandleListCars(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())

	cars, err := h.cars.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if cars == nil {
		cars = []*domain.Car{}
	}
	writeJSON(w, http.StatusOK, cars)
}

func (h *CarHandler) HandleSearchCars(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	query := r.URL.Query().Get("q")

	cars, err := h.cars.Search(r.Context(), ownerID, query)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.metrics.SearchesTotal.Inc()
	if cars == nil {
		cars = []*domain.Car{}
	}
	writeJSON(w, http.StatusOK, cars)
}

func (h *CarHandler) HandleGetCar(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	car, err := h.cars.GetByID(r.Context(), id, ownerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) HandleUpdateCar(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var patch domain.CarPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Warn("invalid request body for update", zap.String("car_id", id), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	car, err := h.cars.Update(r.Context(), id, ownerID, patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.metrics.CarUpdatesTotal.Inc()
	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) HandleDeleteCar(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.cars.Delete(r.Context(), id, ownerID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.metrics.CarDeletesTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "car deleted successfully"})
}

func (h *CarHandler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing photo file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	car, err := h.photos.AttachPhoto(r.Context(), id, ownerID, header.Filename, data)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}
