package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"minpaku/internal/domain/user"
)

var ErrVerificationNotFound = errors.New("auth: verification token not found")

// VerificationToken links an emailed signup link back to the account it
// should enable. Consumed once.
type VerificationToken struct {
	Token     string
	UserID    user.ID
	CreatedAt time.Time
}

func NewVerificationToken(token string, userID user.ID, now time.Time) (*VerificationToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenRequired
	}
	if strings.TrimSpace(string(userID)) == "" {
		return nil, ErrUserRequired
	}
	if now.IsZero() {
		now = time.Now()
	}
	return &VerificationToken{Token: token, UserID: userID, CreatedAt: now.UTC()}, nil
}

type VerificationStore interface {
	Save(ctx context.Context, vt *VerificationToken) error
	Get(ctx context.Context, token string) (*VerificationToken, error)
	Delete(ctx context.Context, token string) error
}
