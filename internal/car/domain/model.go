package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// MaxImages caps the number of photo URLs a car may carry. The storage
// layer tolerates an empty slice for records created before photo upload
// was mandatory.
const MaxImages = 10

// Car is a single inventory listing. ID and UserID are assigned at
// creation and never change afterwards.
type Car struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Tags        Tags      `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Tags is the categorical labeling of a car. CarType, Company and Dealer
// are required; any other keys supplied by clients are preserved opaquely
// in Extra and round-trip through JSON as flat siblings of the fixed keys.
type Tags struct {
	CarType string
	Company string
	Dealer  string
	Extra   map[string]string
}

func (t Tags) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, 3+len(t.Extra))
	for k, v := range t.Extra {
		m[k] = v
	}
	m["carType"] = t.CarType
	m["company"] = t.Company
	m["dealer"] = t.Dealer
	return json.Marshal(m)
}

func (t *Tags) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	t.CarType = m["carType"]
	t.Company = m["company"]
	t.Dealer = m["dealer"]
	delete(m, "carType")
	delete(m, "company")
	delete(m, "dealer")
	t.Extra = nil
	if len(m) > 0 {
		t.Extra = m
	}
	return nil
}

// Values returns every tag value, fixed keys first. The client-side
// filter treats all tag values as searchable text.
func (t Tags) Values() []string {
	vals := make([]string, 0, 3+len(t.Extra))
	vals = append(vals, t.CarType, t.Company, t.Dealer)
	for _, v := range t.Extra {
		vals = append(vals, v)
	}
	return vals
}

// CarDraft is the client-supplied payload for creating a car. The owner
// is never part of the draft; the service derives it from the principal.
type CarDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Tags        Tags     `json:"tags"`
}

// CarPatch is a partial update. Nil fields are left untouched; a non-nil
// Tags replaces the whole mapping, mirroring the server's $set semantics.
type CarPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Tags        *Tags     `json:"tags,omitempty"`
}

// Normalize trims the user-editable text fields in place.
func (c *Car) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Tags.CarType = strings.TrimSpace(c.Tags.CarType)
	c.Tags.Company = strings.TrimSpace(c.Tags.Company)
	c.Tags.Dealer = strings.TrimSpace(c.Tags.Dealer)
}

// Validate checks the invariants a car must satisfy before it is
// persisted. It returns nil or a *ValidationError with per-field detail.
func (c *Car) Validate() error {
	v := &ValidationError{Fields: map[string]string{}}
	if c.Title == "" {
		v.Fields["title"] = "title is required"
	}
	if c.Description == "" {
		v.Fields["description"] = "description is required"
	}
	if len(c.Images) > MaxImages {
		v.Fields["images"] = "at most 10 images are allowed"
	}
	if c.Tags.CarType == "" {
		v.Fields["tags.carType"] = "carType tag is required"
	}
	if c.Tags.Company == "" {
		v.Fields["tags.company"] = "company tag is required"
	}
	if c.Tags.Dealer == "" {
		v.Fields["tags.dealer"] = "dealer tag is required"
	}
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

// CanMutate reports whether the given principal may update or delete the
// car. This is the single ownership predicate: the server enforces it
// authoritatively, the client uses it only to gate edit affordances.
func CanMutate(principalID string, car *Car) bool {
	if car == nil || principalID == "" {
		return false
	}
	return car.UserID == principalID
}
