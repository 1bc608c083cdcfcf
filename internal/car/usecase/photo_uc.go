package usecase

import (
	"context"
	"time"

	"github.com/carhub/car-inventory/internal/car/domain"
	"github.com/carhub/car-inventory/internal/platform/logger"
	"go.uber.org/zap"
)

// PhotoUsecase attaches uploaded photos to a car. The storage
// collaborator turns the blob into a URL; only the URL is persisted.
type PhotoUsecase struct {
	repo    domain.CarRepository
	storage domain.PhotoStorage
	logger  *logger.Logger
}

func NewPhotoUsecase(repo domain.CarRepository, storage domain.PhotoStorage, log *logger.Logger) *PhotoUsecase {
	return &PhotoUsecase{
		repo:    repo,
		storage: storage,
		logger:  log.Named("PhotoUsecase"),
	}
}

// AttachPhoto uploads the blob and appends the resulting URL to the
// car's images, subject to the owner-or-absent rule and the image cap.
func (uc *PhotoUsecase) AttachPhoto(ctx context.Context, id, ownerID, fileName string, data []byte) (*domain.Car, error) {
	car, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanMutate(ownerID, car) {
		return nil, domain.ErrCarNotFound
	}
	if len(car.Images) >= domain.MaxImages {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"images": "at most 10 images are allowed",
		}}
	}

	url, err := uc.storage.Upload(ctx, fileName, data)
	if err != nil {
		uc.logger.Error("photo upload failed", zap.String("car_id", id), zap.Error(err))
		return nil, err
	}

	car.Images = append(car.Images, url)
	car.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, car); err != nil {
		uc.logger.Error("failed to persist photo url", zap.String("car_id", id), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("photo attached", zap.String("car_id", id), zap.String("url", url))
	return car, nil
}
