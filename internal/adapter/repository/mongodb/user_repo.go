package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/carhub/car-inventory/internal/platform/logger"
	"github.com/carhub/car-inventory/internal/user/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type mongoUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m *mongoUser) toEntity() *entity.User {
	return &entity.User{
		ID:        m.ID.Hex(),
		Name:      m.Name,
		Email:     m.Email,
		Password:  m.Password,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewUserRepository(db *mongo.Database, log *logger.Logger) *UserRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection("users")
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("failed to ensure indexes for users collection", zap.Error(err))
	}

	return &UserRepository{
		collection: collection,
		logger:     log.Named("UserRepository"),
	}
}

// CreateUser inserts the user and assigns its id. The caller is
// expected to have hashed the password already.
func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) error {
	now := time.Now().UTC()
	doc := &mongoUser{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("duplicate email on user creation", zap.String("email", user.Email))
			return entity.ErrDuplicateEmail
		}
		r.logger.Error("failed to insert user", zap.String("email", user.Email), zap.Error(err))
		return err
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt
	user.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var doc mongoUser
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to find user by email", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrUserNotFound
	}

	var doc mongoUser
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to find user by id", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return doc.toEntity(), nil
}
