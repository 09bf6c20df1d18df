package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("user: id is required")
	ErrEmailRequired       = errors.New("user: email is required")
	ErrNameRequired        = errors.New("user: name is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrEmailAlreadyUsed    = errors.New("user: email already used")
	ErrNotFound            = errors.New("user: not found")
)

type ID string

type Role string

const (
	RoleGeneral Role = "general"
	RoleAdmin   Role = "admin"
)

// User stays disabled until the email verification link is followed; login is
// refused while Enabled is false.
type User struct {
	ID           ID
	Name         string
	Furigana     string
	PostalCode   string
	Address      string
	PhoneNumber  string
	Email        string
	PasswordHash string
	Role         Role
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
}

type CreateParams struct {
	ID           ID
	Name         string
	Furigana     string
	PostalCode   string
	Address      string
	PhoneNumber  string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func New(params CreateParams) (*User, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	role := params.Role
	if role == "" {
		role = RoleGeneral
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &User{
		ID:           params.ID,
		Name:         name,
		Furigana:     strings.TrimSpace(params.Furigana),
		PostalCode:   strings.TrimSpace(params.PostalCode),
		Address:      strings.TrimSpace(params.Address),
		PhoneNumber:  strings.TrimSpace(params.PhoneNumber),
		Email:        email,
		PasswordHash: params.PasswordHash,
		Role:         role,
		Enabled:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Enable activates the account after email verification.
func (u *User) Enable(now time.Time) {
	u.Enabled = true
	u.touch(now)
}

type UpdateProfileParams struct {
	Name        string
	Furigana    string
	PostalCode  string
	Address     string
	PhoneNumber string
	Email       string
	Now         time.Time
}

func (u *User) UpdateProfile(params UpdateProfileParams) error {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return ErrNameRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return ErrEmailRequired
	}
	u.Name = name
	u.Furigana = strings.TrimSpace(params.Furigana)
	u.PostalCode = strings.TrimSpace(params.PostalCode)
	u.Address = strings.TrimSpace(params.Address)
	u.PhoneNumber = strings.TrimSpace(params.PhoneNumber)
	u.Email = email
	u.touch(params.Now)
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.UpdatedAt = now.UTC()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
