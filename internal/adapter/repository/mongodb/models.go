package mongodb

import (
	"fmt"
	"time"

	"github.com/carhub/car-inventory/internal/car/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// carDocument is the MongoDB representation of a domain.Car. Tags are
// flattened into a plain map so the composite text index can cover the
// fixed keys while arbitrary extra keys survive round trips untouched.
type carDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Images      []string           `bson:"images"`
	Tags        map[string]string  `bson:"tags"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toCarDocument(c *domain.Car) (*carDocument, error) {
	if c == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if c.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return nil, fmt.Errorf("toCarDocument: invalid id %q: %w", c.ID, err)
		}
	}

	tags := make(map[string]string, 3+len(c.Tags.Extra))
	for k, v := range c.Tags.Extra {
		tags[k] = v
	}
	tags["carType"] = c.Tags.CarType
	tags["company"] = c.Tags.Company
	tags["dealer"] = c.Tags.Dealer

	return &carDocument{
		ID:          docID,
		UserID:      c.UserID,
		Title:       c.Title,
		Description: c.Description,
		Images:      c.Images,
		Tags:        tags,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}, nil
}

func toDomainCar(d *carDocument) *domain.Car {
	if d == nil {
		return nil
	}

	tags := domain.Tags{
		CarType: d.Tags["carType"],
		Company: d.Tags["company"],
		Dealer:  d.Tags["dealer"],
	}
	for k, v := range d.Tags {
		if k == "carType" || k == "company" || k == "dealer" {
			continue
		}
		if tags.Extra == nil {
			tags.Extra = make(map[string]string)
		}
		tags.Extra[k] = v
	}

	images := d.Images
	if images == nil {
		images = []string{}
	}

	return &domain.Car{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Images:      images,
		Tags:        tags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toDomainCars(docs []*carDocument) []*domain.Car {
	cars := make([]*domain.Car, 0, len(docs))
	for _, doc := range docs {
		cars = append(cars, toDomainCar(doc))
	}
	return cars
}
