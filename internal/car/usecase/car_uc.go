package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/carhub/car-inventory/internal/car/domain"
	"github.com/carhub/car-inventory/internal/platform/logger"
	"go.uber.org/zap"
)

// CarUsecase implements the owner-scoped listing operations. Every
// mutation re-checks ownership server-side with domain.CanMutate;
// client-side checks are advisory only.
type CarUsecase struct {
	repo   domain.CarRepository
	events domain.EventPublisher
	logger *logger.Logger
}

func NewCarUsecase(repo domain.CarRepository, events domain.EventPublisher, log *logger.Logger) *CarUsecase {
	return &CarUsecase{
		repo:   repo,
		events: events,
		logger: log.Named("CarUsecase"),
	}
}

// Create validates the draft and persists a new car owned by ownerID.
// Any owner supplied inside the draft is ignored; the principal wins.
func (uc *CarUsecase) Create(ctx context.Context, ownerID string, draft domain.CarDraft) (*domain.Car, error) {
	car := &domain.Car{
		UserID:      ownerID,
		Title:       draft.Title,
		Description: draft.Description,
		Images:      draft.Images,
		Tags:        draft.Tags,
	}
	if car.Images == nil {
		car.Images = []string{}
	}
	car.Normalize()
	if err := car.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, car); err != nil {
		uc.logger.Error("failed to create car", zap.String("user_id", ownerID), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("car created", zap.String("car_id", car.ID), zap.String("user_id", ownerID))

	if err := uc.events.CarCreated(ctx, car); err != nil {
		uc.logger.Warn("failed to publish car.created", zap.String("car_id", car.ID), zap.Error(err))
	}
	return car, nil
}

// ListByOwner returns every car owned by the principal, in fetch order.
func (uc *CarUsecase) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Car, error) {
	cars, err := uc.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		uc.logger.Error("failed to list cars", zap.String("user_id", ownerID), zap.Error(err))
		return nil, err
	}
	return cars, nil
}

// GetByID returns the car only when it exists and belongs to ownerID.
// Absent and not-owned collapse into the same ErrCarNotFound.
func (uc *CarUsecase) GetByID(ctx context.Context, id, ownerID string) (*domain.Car, error) {
	car, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanMutate(ownerID, car) {
		uc.logger.Warn("car access denied, reporting not found",
			zap.String("car_id", id), zap.String("user_id", ownerID))
		return nil, domain.ErrCarNotFound
	}
	return car, nil
}

// Update merges the patch over the stored car, re-validates and
// persists. The owner-or-absent rule applies before anything else.
func (uc *CarUsecase) Update(ctx context.Context, id, ownerID string, patch domain.CarPatch) (*domain.Car, error) {
	car, err := uc.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		car.Title = *patch.Title
	}
	if patch.Description != nil {
		car.Description = *patch.Description
	}
	if patch.Images != nil {
		car.Images = *patch.Images
	}
	if patch.Tags != nil {
		car.Tags = *patch.Tags
	}
	car.Normalize()
	if err := car.Validate(); err != nil {
		return nil, err
	}
	car.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, car); err != nil {
		uc.logger.Error("failed to update car", zap.String("car_id", id), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("car updated", zap.String("car_id", id), zap.String("user_id", ownerID))

	if err := uc.events.CarUpdated(ctx, car); err != nil {
		uc.logger.Warn("failed to publish car.updated", zap.String("car_id", id), zap.Error(err))
	}
	return car, nil
}

// Delete removes the car under the owner-or-absent rule. Deletion is
// terminal: a second delete of the same id reports ErrCarNotFound.
func (uc *CarUsecase) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := uc.GetByID(ctx, id, ownerID); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("failed to delete car", zap.String("car_id", id), zap.Error(err))
		return err
	}
	uc.logger.Info("car deleted", zap.String("car_id", id), zap.String("user_id", ownerID))

	if err := uc.events.CarDeleted(ctx, id); err != nil {
		uc.logger.Warn("failed to publish car.deleted", zap.String("car_id", id), zap.Error(err))
	}
	return nil
}

// Search runs the indexed text search scoped to the principal. An empty
// query degrades to a plain owner listing.
func (uc *CarUsecase) Search(ctx context.Context, ownerID, query string) ([]*domain.Car, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return uc.ListByOwner(ctx, ownerID)
	}

	cars, err := uc.repo.Search(ctx, ownerID, query)
	if err != nil {
		uc.logger.Error("failed to search cars",
			zap.String("user_id", ownerID), zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return cars, nil
}
