package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/inventory-service/internal/apperr"
	"github.com/iliyamo/inventory-service/internal/events"
	"github.com/iliyamo/inventory-service/internal/model"
	"github.com/iliyamo/inventory-service/internal/repository"
	"github.com/iliyamo/inventory-service/internal/security"
)

// UserStore is the credential store consumed by AuthService.
type UserStore interface {
	Insert(ctx context.Context, u *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	Delete(ctx context.Context, id uint64) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer issues access tokens for a username.
type TokenIssuer interface {
	Issue(subject string) (security.AccessToken, error)
}

// Messages shared with the HTTP layer.
const (
	MsgInvalidLogin   = "Invalid username or password"
	MsgUsernameTaken  = "Username already exists"
	MsgEmailTaken     = "Email already registered"
	MsgUserNotFound   = "User not found"
	MsgItemNotFound   = "Item not found"
	MsgInvalidPayload = "Invalid request body"
)

// AuthService implements registration, login and user administration.
type AuthService struct {
	users     UserStore
	hasher    PasswordHasher
	tokens    TokenIssuer
	publisher events.Publisher
	logger    *zap.Logger

	// dummyHash is verified against when the username is unknown so that a
	// failed login costs one bcrypt comparison either way.
	dummyHash string
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, publisher events.Publisher, logger *zap.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash("inventory-service-timing-pad")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
		dummyHash: dummy,
	}, nil
}

// Register creates a user with role "user".  There is no way to choose a
// role at registration.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.New(apperr.ErrBadRequest, "Password cannot be used")
	}

	u := &model.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	switch err := s.users.Insert(ctx, u); {
	case errors.Is(err, repository.ErrUsernameExists):
		return nil, apperr.New(apperr.ErrConflict, MsgUsernameTaken)
	case errors.Is(err, repository.ErrEmailExists):
		return nil, apperr.New(apperr.ErrConflict, MsgEmailTaken)
	case err != nil:
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.UserRegistered, EntityID: u.ID, Name: u.Username})
	return u, nil
}

// Login verifies credentials and issues an access token.  Unknown users,
// wrong passwords and inactive accounts all fail with the same message.
func (s *AuthService) Login(ctx context.Context, username, password string) (security.AccessToken, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return security.AccessToken{}, err
	}
	if u == nil {
		s.hasher.Verify(password, s.dummyHash)
		return security.AccessToken{}, apperr.New(apperr.ErrBadRequest, MsgInvalidLogin)
	}
	if !s.hasher.Verify(password, u.PasswordHash) || !u.IsActive {
		return security.AccessToken{}, apperr.New(apperr.ErrBadRequest, MsgInvalidLogin)
	}
	return s.tokens.Issue(u.Username)
}

// GetUser returns a user by id.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.ErrNotFound, MsgUserNotFound)
	}
	return u, err
}

// DeleteUser removes a user.  The caller is responsible for the admin gate;
// admin is recorded as the actor of the audit event.
func (s *AuthService) DeleteUser(ctx context.Context, id uint64, admin *model.User) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.New(apperr.ErrNotFound, MsgUserNotFound)
	}
	if err != nil {
		return err
	}
	s.publish(ctx, events.Event{Type: events.UserDeleted, EntityID: id, Actor: admin.Username})
	return nil
}

// publish sends ev and only logs failures.
func (s *AuthService) publish(ctx context.Context, ev events.Event) {
	publish(ctx, s.publisher, s.logger, ev)
}

func publish(ctx context.Context, p events.Publisher, log *zap.Logger, ev events.Event) {
	ev.OccurredAt = time.Now().UTC()
	if err := p.Publish(ctx, ev); err != nil {
		log.Warn("publish audit event failed", zap.String("type", ev.Type), zap.Uint64("entity_id", ev.EntityID), zap.Error(err))
	}
}
