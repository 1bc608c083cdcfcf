package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/carhub/car-inventory/internal/car/domain"
	"github.com/carhub/car-inventory/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CarRepository persists cars in the "cars" collection and maintains
// the composite full-text index used by owner-scoped search.
type CarRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewCarRepository(db *mongo.Database, log *logger.Logger) *CarRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection("cars")
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "tags.carType", Value: "text"},
			{Key: "tags.company", Value: "text"},
			{Key: "tags.dealer", Value: "text"},
		}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("failed to ensure indexes for cars collection", zap.Error(err))
	}

	return &CarRepository{
		collection: collection,
		logger:     log.Named("CarRepository"),
	}
}

func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	now := time.Now().UTC()
	car.ID = primitive.NewObjectID().Hex()
	car.CreatedAt = now
	car.UpdatedAt = now

	doc, err := toCarDocument(car)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("failed to insert car", zap.String("user_id", car.UserID), zap.Error(err))
		return err
	}
	return nil
}

func (r *CarRepository) Update(ctx context.Context, car *domain.Car) error {
	doc, err := toCarDocument(car)
	if err != nil {
		return err
	}

	res, err := r.collection.UpdateByID(ctx, doc.ID, bson.M{"$set": bson.M{
		"title":       doc.Title,
		"description": doc.Description,
		"images":      doc.Images,
		"tags":        doc.Tags,
		"updated_at":  doc.UpdatedAt,
	}})
	if err != nil {
		r.logger.Error("failed to update car", zap.String("car_id", car.ID), zap.Error(err))
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCarNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		r.logger.Error("failed to delete car", zap.String("car_id", id), zap.Error(err))
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

func (r *CarRepository) FindByID(ctx context.Context, id string) (*domain.Car, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never match a record; report it the same
		// way as an absent one.
		return nil, domain.ErrCarNotFound
	}

	var doc carDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrCarNotFound
	}
	if err != nil {
		r.logger.Error("failed to find car", zap.String("car_id", id), zap.Error(err))
		return nil, err
	}
	return toDomainCar(&doc), nil
}

func (r *CarRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Car, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": ownerID})
	if err != nil {
		r.logger.Error("failed to list cars", zap.String("user_id", ownerID), zap.Error(err))
		return nil, err
	}
	var docs []*carDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainCars(docs), nil
}

// Search combines the text index with the owner filter; both conditions
// must hold. Results are ordered by the engine's text score.
func (r *CarRepository) Search(ctx context.Context, ownerID, query string) ([]*domain.Car, error) {
	filter := bson.M{
		"user_id": ownerID,
		"$text":   bson.M{"$search": query},
	}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("failed to search cars", zap.String("user_id", ownerID), zap.String("query", query), zap.Error(err))
		return nil, err
	}
	var docs []*carDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainCars(docs), nil
}
