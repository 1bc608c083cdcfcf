package entity

import "time"

// User is an account that can own cars. Password holds the bcrypt hash
// once the user has been persisted.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
