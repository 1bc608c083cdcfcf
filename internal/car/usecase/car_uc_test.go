package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/carhub/car-inventory/internal/car/domain"
	"github.com/carhub/car-inventory/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockCarRepository struct{ mock.Mock }

func (m *MockCarRepository) Create(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepository) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCarRepository) FindByID(ctx context.Context, id string) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Car, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Car), args.Error(1)
}
func (m *MockCarRepository) Search(ctx context.Context, ownerID, query string) ([]*domain.Car, error) {
	args := m.Called(ctx, ownerID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Car), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) CarCreated(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockEventPublisher) CarUpdated(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockEventPublisher) CarDeleted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestUsecase() (*CarUsecase, *MockCarRepository, *MockEventPublisher) {
	repo := new(MockCarRepository)
	events := new(MockEventPublisher)
	return NewCarUsecase(repo, events, logger.NewLogger()), repo, events
}

func storedCar(id, ownerID string) *domain.Car {
	return &domain.Car{
		ID:          id,
		UserID:      ownerID,
		Title:       "Red Sedan",
		Description: "Well kept",
		Images:      []string{"http://i/1.jpg"},
		Tags:        domain.Tags{CarType: "Sedan", Company: "Acme", Dealer: "North"},
		CreatedAt:   time.Now().Add(-time.Hour),
		UpdatedAt:   time.Now().Add(-time.Hour),
	}
}

func TestCarUsecase_Create_ForcesOwner(t *testing.T) {
	uc, repo, events := newTestUsecase()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Car")).Run(func(args mock.Arguments) {
		car := args.Get(1).(*domain.Car)
		car.ID = primitive.NewObjectID().Hex()
		car.CreatedAt = time.Now()
		car.UpdatedAt = time.Now()
	}).Return(nil).Once()
	events.On("CarCreated", ctx, mock.AnythingOfType("*domain.Car")).Return(nil).Once()

	// The draft carries no owner field at all; whatever principal calls
	// Create becomes the owner.
	car, err := uc.Create(ctx, "u1", domain.CarDraft{
		Title:       "  Model X ",
		Description: "Electric SUV",
		Images:      []string{"http://i/1.jpg"},
		Tags:        domain.Tags{CarType: "SUV", Company: "Acme", Dealer: "North"},
	})

	require.NoError(t, err)
	assert.Equal(t, "u1", car.UserID)
	assert.Equal(t, "Model X", car.Title)
	assert.NotEmpty(t, car.ID)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCarUsecase_Create_ValidationError(t *testing.T) {
	uc, repo, _ := newTestUsecase()

	_, err := uc.Create(context.Background(), "u1", domain.CarDraft{
		Title: "No tags",
	})

	var v *domain.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v.Fields, "description")
	assert.Contains(t, v.Fields, "tags.carType")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCarUsecase_Create_PublishFailureIsNotFatal(t *testing.T) {
	uc, repo, events := newTestUsecase()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Car")).Return(nil).Once()
	events.On("CarCreated", ctx, mock.AnythingOfType("*domain.Car")).Return(assert.AnError).Once()

	car, err := uc.Create(ctx, "u1", domain.CarDraft{
		Title:       "Model X",
		Description: "Electric SUV",
		Tags:        domain.Tags{CarType: "SUV", Company: "Acme", Dealer: "North"},
	})

	require.NoError(t, err)
	require.NotNil(t, car)
}

func TestCarUsecase_GetByID_ForeignOwnerReportsNotFound(t *testing.T) {
	uc, repo, _ := newTestUsecase()
	ctx := context.Background()

	repo.On("FindByID", ctx, "c1").Return(storedCar("c1", "u1"), nil).Once()

	_, err := uc.GetByID(ctx, "c1", "u2")
	assert.ErrorIs(t, err, domain.ErrCarNotFound)
}

func TestCarUsecase_GetByID_Absent(t *testing.T) {
	uc, repo, _ := newTestUsecase()
	ctx := context.Background()

	repo.On("FindByID", ctx, "missing").Return(nil, domain.ErrCarNotFound).Once()

	_, err := uc.GetByID(ctx, "missing", "u1")
	assert.ErrorIs(t, err, domain.ErrCarNotFound)
}

func TestCarUsecase_Update_MergesPatchAndBumpsUpdatedAt(t *testing.T) {
	uc, repo, events := newTestUsecase()
	ctx := context.Background()

	prior := storedCar("c1", "u1")
	priorUpdatedAt := prior.UpdatedAt

	repo.On("FindByID", ctx, "c1").Return(prior, nil).Once()
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Car")).Return(nil).Once()
	events.On("CarUpdated", ctx, mock.AnythingOfType("*domain.Car")).Return(nil).Once()

	newTitle := "Blue Sedan"
	updated, err := uc.Update(ctx, "c1", "u1", domain.CarPatch{Title: &newTitle})

	require.NoError(t, err)
	assert.Equal(t, "Blue Sedan", updated.Title)
	assert.Equal(t, "Well kept", updated.Description, "unpatched fields keep prior state")
	assert.True(t, updated.UpdatedAt.After(priorUpdatedAt), "UpdatedAt must be strictly greater")
	assert.Equal(t, "u1", updated.UserID, "ownership never changes on update")
}

func TestCarUsecase_Update_ForeignOwner(t *testing.T) {
	uc, repo, _ := newTestUsecase()
	ctx := context.Background()

	repo.On("FindByID", ctx, "c1").Return(storedCar("c1", "u1"), nil).Once()

	newTitle := "Hijacked"
	_, err := uc.Update(ctx, "c1", "u2", domain.CarPatch{Title: &newTitle})

	assert.ErrorIs(t, err, domain.ErrCarNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCarUsecase_Update_InvalidPatchRejected(t *testing.T) {
	uc, repo, _ := newTestUsecase()
	ctx := context.Background()

	repo.On("FindByID", ctx, "c1").Return(storedCar("c1", "u1"), nil).Once()

	empty := ""
	_, err := uc.Update(ctx, "c1", "u1", domain.CarPatch{Title: &empty})

	var v *domain.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v.Fields, "title")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCarUsecase_Delete_ThenDeleteAgainReportsNotFound(t *testing.T) {
	uc, repo, events := newTestUsecase()
	ctx := context.Background()

	repo.On("FindByID", ctx, "c1").Return(storedCar("c1", "u1"), nil).Once()
	repo.On("Delete", ctx, "c1").Return(nil).Once()
	events.On("CarDeleted", ctx, "c1").Return(nil).Once()

	require.NoError(t, uc.Delete(ctx, "c1", "u1"))

	// The record is gone now; a second delete surfaces not-found
	// instead of crashing.
	repo.On("FindByID", ctx, "c1").Return(nil, domain.ErrCarNotFound).Once()
	assert.ErrorIs(t, uc.Delete(ctx, "c1", "u1"), domain.ErrCarNotFound)

	repo.AssertExpectations(t)
}

func TestCarUsecase_Search_ScopedToOwner(t *testing.T) {
	uc, repo, _ := newTestUsecase()
	ctx := context.Background()

	owned := storedCar("c1", "u1")
	repo.On("Search", ctx, "u1", "Acme").Return([]*domain.Car{owned}, nil).Once()
	repo.On("Search", ctx, "u2", "Acme").Return([]*domain.Car{}, nil).Once()

	got, err := uc.Search(ctx, "u1", "Acme")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)

	other, err := uc.Search(ctx, "u2", "Acme")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCarUsecase_Search_EmptyQueryListsAll(t *testing.T) {
	uc, repo, _ := newTestUsecase()
	ctx := context.Background()

	repo.On("FindByOwner", ctx, "u1").Return([]*domain.Car{storedCar("c1", "u1")}, nil).Once()

	got, err := uc.Search(ctx, "u1", "   ")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}
