package services

import (
	"context"
	"errors"
	"postboard/backend/app/models"
	"postboard/backend/app/repo"
	"postboard/backend/app/session"
	"unicode/utf16"

	"golang.org/x/crypto/bcrypt"
)

const (
	HashCost          = 10
	MinPasswordLength = 6
	MaxUsernameLength = 20
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

type UserService struct {
	users    UserStore
	sessions session.Store
}

func NewUserService(users UserStore, sessions session.Store) *UserService {
	return &UserService{users: users, sessions: sessions}
}

type SignupParams struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
	Admin           bool
}

// Signup creates an account. It does not log the new user in.
func (s *UserService) Signup(ctx context.Context, p SignupParams) (*models.User, error) {
	var v validator
	v.check(p.Username != "" && p.Email != "" && p.Password != "" && p.ConfirmPassword != "", ErrMissingFields)
	v.check(p.Password == p.ConfirmPassword, ErrPasswordMismatch)
	v.check(textLength(p.Password) >= MinPasswordLength, ErrPasswordTooShort)
	if err := v.err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), HashCost)
	if err != nil {
		return nil, storageErr(ErrCreateAccount, err)
	}
	role := models.RoleUser
	if p.Admin {
		role = models.RoleAdmin
	}
	u := &models.User{Username: p.Username, Email: p.Email, PasswordHash: string(hash), Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, storageErr(ErrCreateAccount, err)
	}
	return u, nil
}

// Login checks input shape before touching storage, so a short password is
// rejected even when it would match.
func (s *UserService) Login(ctx context.Context, username, password string) (*session.Session, error) {
	var v validator
	v.check(username != "" && password != "", ErrMissingFields)
	v.check(textLength(password) >= MinPasswordLength, ErrPasswordTooShort)
	v.check(textLength(username) <= MaxUsernameLength, ErrUsernameTooLong)
	if err := v.err(); err != nil {
		return nil, err
	}

	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storageErr(ErrLogin, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, u.ID, u.Role)
	if err != nil {
		return nil, storageErr(ErrLogin, err)
	}
	return sess, nil
}

// Logout destroys the session. An empty id is a no-op.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, sessionID)
}

// Resolve loads the session behind an id; unknown ids resolve to ErrUnauthorized.
func (s *UserService) Resolve(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, ErrUnauthorized
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, ErrUnauthorized
	}
	return sess, nil
}

// Role reads the user's current role from storage rather than the session.
func (s *UserService) Role(ctx context.Context, userID uint) (models.Role, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// textLength counts UTF-16 code units, so a character outside the BMP counts twice.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
