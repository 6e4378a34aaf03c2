package models

import "time"

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Username     string    `json:"username" db:"username" example:"jdoe"`
	Email        string    `json:"email" db:"email" example:"jdoe@campus.edu"`
	Password     string    `json:"-" db:"password_hash"` // Hashed password, excluded from JSON
	FullName     string    `json:"fullName" db:"full_name" example:"John Doe"`
	PhoneNumber  *string   `json:"phoneNumber,omitempty" db:"phone_number"`
	Bio          *string   `json:"bio,omitempty" db:"bio"`
	Skills       *string   `json:"skills,omitempty" db:"skills"` // JSON-encoded list of skills
	IsAdmin      bool      `json:"isAdmin" db:"is_admin" example:"false"`
	IsActive     bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
