package dto

import (
	"time"

	domainuser "minpaku/internal/domain/user"
)

type UserProfile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Furigana    string    `json:"furigana,omitempty"`
	PostalCode  string    `json:"postal_code,omitempty"`
	Address     string    `json:"address,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AuthResponse struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

func MapUserProfile(u *domainuser.User) UserProfile {
	if u == nil {
		return UserProfile{}
	}
	return UserProfile{
		ID:          string(u.ID),
		Name:        u.Name,
		Furigana:    u.Furigana,
		PostalCode:  u.PostalCode,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		Role:        string(u.Role),
		Enabled:     u.Enabled,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func NewAuthResponse(u *domainuser.User, token string) AuthResponse {
	return AuthResponse{
		User:  MapUserProfile(u),
		Token: token,
	}
}
