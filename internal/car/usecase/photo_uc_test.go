package usecase

import (
	"context"
	"testing"

	"github.com/carhub/car-inventory/internal/car/domain"
	"github.com/carhub/car-inventory/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPhotoStorage struct{ mock.Mock }

func (m *MockPhotoStorage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.Error(1)
}

func TestPhotoUsecase_AttachPhoto(t *testing.T) {
	repo := new(MockCarRepository)
	storage := new(MockPhotoStorage)
	uc := NewPhotoUsecase(repo, storage, logger.NewLogger())
	ctx := context.Background()

	car := storedCar("c1", "u1")
	repo.On("FindByID", ctx, "c1").Return(car, nil).Once()
	storage.On("Upload", ctx, "front.jpg", []byte("blob")).Return("http://s3/photos/x.jpg", nil).Once()
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Car")).Return(nil).Once()

	updated, err := uc.AttachPhoto(ctx, "c1", "u1", "front.jpg", []byte("blob"))

	require.NoError(t, err)
	assert.Contains(t, updated.Images, "http://s3/photos/x.jpg")
	repo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestPhotoUsecase_AttachPhoto_ForeignOwner(t *testing.T) {
	repo := new(MockCarRepository)
	storage := new(MockPhotoStorage)
	uc := NewPhotoUsecase(repo, storage, logger.NewLogger())
	ctx := context.Background()

	repo.On("FindByID", ctx, "c1").Return(storedCar("c1", "u1"), nil).Once()

	_, err := uc.AttachPhoto(ctx, "c1", "u2", "front.jpg", []byte("blob"))

	assert.ErrorIs(t, err, domain.ErrCarNotFound)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestPhotoUsecase_AttachPhoto_ImageCap(t *testing.T) {
	repo := new(MockCarRepository)
	storage := new(MockPhotoStorage)
	uc := NewPhotoUsecase(repo, storage, logger.NewLogger())
	ctx := context.Background()

	car := storedCar("c1", "u1")
	car.Images = make([]string, domain.MaxImages)
	repo.On("FindByID", ctx, "c1").Return(car, nil).Once()

	_, err := uc.AttachPhoto(ctx, "c1", "u1", "front.jpg", []byte("blob"))

	var v *domain.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v.Fields, "images")
}
