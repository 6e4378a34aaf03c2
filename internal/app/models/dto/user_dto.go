package dto

import (
	"time"

	"github.com/selimd/campuslink/internal/app/models"
)

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Bio       *string   `json:"bio,omitempty"`
	Skills    *string   `json:"skills,omitempty"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserBasicResponse is the minimal user projection embedded in other responses
type UserBasicResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FullName    string  `json:"fullName" binding:"required,min=2,max=100"`
	Bio         *string `json:"bio,omitempty"`
	Skills      *string `json:"skills,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Bio:       user.Bio,
		Skills:    user.Skills,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

// FromUserBasic converts a models.User to a UserBasicResponse
func FromUserBasic(user *models.User) UserBasicResponse {
	return UserBasicResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
	}
}
