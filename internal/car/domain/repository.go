package domain

import "context"

// CarRepository is the persistence port for cars. Create assigns ID,
// CreatedAt and UpdatedAt on the passed car. FindByID returns
// ErrCarNotFound for unknown ids; ownership checks live in the usecase.
type CarRepository interface {
	Create(ctx context.Context, car *Car) error
	Update(ctx context.Context, car *Car) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Car, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Car, error)
	// Search combines the store's full-text index with an owner filter
	// (logical AND). Ranking is the engine's native text score.
	Search(ctx context.Context, ownerID, query string) ([]*Car, error)
}

// PhotoStorage stores an opaque binary blob and returns a public URL.
type PhotoStorage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// EventPublisher emits lifecycle events for downstream consumers.
// Publishing is best-effort; failures must not abort the operation.
type EventPublisher interface {
	CarCreated(ctx context.Context, car *Car) error
	CarUpdated(ctx context.Context, car *Car) error
	CarDeleted(ctx context.Context, id string) error
}
