package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"minpaku/internal/app/outbox"
	domainauth "minpaku/internal/domain/auth"
	"minpaku/internal/domain/shared/events"
	domainuser "minpaku/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
	ErrPasswordMismatch   = errors.New("auth: password confirmation does not match")
	ErrUserNotVerified    = errors.New("auth: email address not verified")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

type Service struct {
	Users         domainuser.Repository
	Sessions      domainauth.SessionStore
	Verifications domainauth.VerificationStore
	Passwords     PasswordHasher
	Tokens        TokenGenerator
	Outbox        outbox.Outbox
	SessionTTL    time.Duration
	BaseURL       string
	Logger        *slog.Logger
}

type SignupParams struct {
	Name            string
	Furigana        string
	PostalCode      string
	Address         string
	PhoneNumber     string
	Email           string
	Password        string
	PasswordConfirm string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  *domainuser.User
	Token string
}

type ResolveResult struct {
	User    *domainuser.User
	Session *domainauth.Session
}

// Signup registers a disabled account and hands a verification token to the
// outbox so the mail dispatcher can send the activation link. No session is
// issued; login stays refused until the link is followed.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, domainuser.ErrEmailRequired
	}
	if params.Password != params.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	if err := s.validatePassword(params.Password); err != nil {
		return nil, err
	}
	if existing, err := s.Users.ByEmail(ctx, email); err == nil && existing != nil {
		return nil, domainuser.ErrEmailAlreadyUsed
	} else if err != nil && !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Name:         params.Name,
		Furigana:     params.Furigana,
		PostalCode:   params.PostalCode,
		Address:      params.Address,
		PhoneNumber:  params.PhoneNumber,
		Email:        email,
		PasswordHash: hash,
		Role:         domainuser.RoleGeneral,
		CreatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	token, err := s.Tokens.NewToken()
	if err != nil {
		return nil, err
	}
	vt, err := domainauth.NewVerificationToken(token, u.ID, now)
	if err != nil {
		return nil, err
	}
	if err := s.Verifications.Save(ctx, vt); err != nil {
		return nil, err
	}
	ev := domainuser.SignedUp{
		UserID:    u.ID,
		Email:     u.Email,
		VerifyURL: s.verifyURL(token),
		At:        now.UTC(),
	}
	if err := outbox.RecordDomainEvents(ctx, s.Outbox, nil, []events.DomainEvent{ev}); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user signed up", "user_id", u.ID, "email", u.Email)
	}
	return u, nil
}

// Verify consumes the emailed token and enables the account.
func (s *Service) Verify(ctx context.Context, token string) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domainauth.ErrTokenRequired
	}
	vt, err := s.Verifications.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.ByID(ctx, vt.UserID)
	if err != nil {
		return nil, err
	}
	u.Enable(time.Now())
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	if err := s.Verifications.Delete(ctx, token); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user verified", "user_id", u.ID)
	}
	return u, nil
}

type ProfileParams struct {
	Name        string
	Furigana    string
	PostalCode  string
	Address     string
	PhoneNumber string
	Email       string
}

// UpdateProfile edits the caller's own account details. Changing the email
// keeps the account enabled; the address was already verified once and the
// login credential stays the same.
func (s *Service) UpdateProfile(ctx context.Context, id domainuser.ID, params ProfileParams) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email != "" && email != u.Email {
		if existing, err := s.Users.ByEmail(ctx, email); err == nil && existing != nil && existing.ID != u.ID {
			return nil, domainuser.ErrEmailAlreadyUsed
		} else if err != nil && !errors.Is(err, domainuser.ErrNotFound) {
			return nil, err
		}
	}
	if err := u.UpdateProfile(domainuser.UpdateProfileParams{
		Name:        params.Name,
		Furigana:    params.Furigana,
		PostalCode:  params.PostalCode,
		Address:     params.Address,
		PhoneNumber: params.PhoneNumber,
		Email:       params.Email,
		Now:         time.Now(),
	}); err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("profile updated", "user_id", u.ID)
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.Passwords.Compare(u.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.Enabled {
		return nil, ErrUserNotVerified
	}
	token, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user authenticated", "user_id", u.ID)
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, domainauth.Token(token)); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("session terminated")
	}
	return nil
}

func (s *Service) ResolveToken(ctx context.Context, token string) (*ResolveResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domainauth.ErrTokenRequired
	}
	session, err := s.Sessions.Get(ctx, domainauth.Token(token))
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = s.Sessions.Delete(ctx, session.Token)
		return nil, domainauth.ErrSessionNotFound
	}
	u, err := s.Users.ByID(ctx, session.UserID)
	if err != nil {
		_ = s.Sessions.Delete(ctx, session.Token)
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	if !u.Enabled {
		_ = s.Sessions.DeleteByUser(ctx, u.ID)
		return nil, ErrUserNotVerified
	}
	return &ResolveResult{User: u, Session: session}, nil
}

func (s *Service) issueSession(ctx context.Context, u *domainuser.User) (string, error) {
	token, err := s.Tokens.NewToken()
	if err != nil {
		return "", err
	}
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  domainauth.Token(token),
		UserID: u.ID,
		Role:   u.Role,
		TTL:    s.sessionTTL(),
		Now:    time.Now(),
	})
	if err != nil {
		return "", err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 24 * time.Hour
}

func (s *Service) verifyURL(token string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		base = "http://localhost:8080"
	}
	return base + "/api/v1/auth/verify?token=" + token
}

func (s *Service) validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Users == nil:
		return errors.New("auth: user repository required")
	case s.Sessions == nil:
		return errors.New("auth: session store required")
	case s.Verifications == nil:
		return errors.New("auth: verification store required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token generator required")
	default:
		return nil
	}
}
