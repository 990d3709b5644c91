package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/judyrop/storefront/errx"
	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/repository"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgInactive           = "User account is inactive"
	msgInvalidToken       = "Invalid token"

	tokenKeyBytes = 20
)

type Service struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	external ExternalVerifier
	cost     int
	logger   *zap.Logger

	// compared against when the username is unknown so a miss costs as much
	// as a wrong password
	dummyHash []byte
}

type Option func(*Service)

func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

// WithExternalVerifier lets tokens unknown to the token store authenticate
// through an outside identity provider.
func WithExternalVerifier(v ExternalVerifier) Option {
	return func(s *Service) {
		s.external = v
	}
}

func NewService(users repository.UserRepository, tokens repository.TokenRepository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		users:  users,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
		logger: log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("storefront-dummy"), s.cost)
	return s
}

// Signup creates a user after checking username and email uniqueness and the
// password policy.
func (s *Service) Signup(ctx context.Context, in models.SignUpSchema) (*models.User, error) {
	if err := s.checkUsername(ctx, in.Username); err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, in.Email); err != nil {
		return nil, err
	}
	return s.createUser(ctx, in)
}

// Register is Signup with the email conflict reported first.
func (s *Service) Register(ctx context.Context, in models.SignUpSchema) (*models.User, error) {
	if err := s.checkEmail(ctx, in.Email); err != nil {
		return nil, err
	}
	if err := s.checkUsername(ctx, in.Username); err != nil {
		return nil, err
	}
	return s.createUser(ctx, in)
}

func (s *Service) checkUsername(ctx context.Context, username string) error {
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return errx.Internal(err)
	}
	if exists {
		return errx.Conflict("Username already exists")
	}
	return nil
}

func (s *Service) checkEmail(ctx context.Context, email string) error {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return errx.Internal(err)
	}
	if exists {
		return errx.Conflict("Email already exists")
	}
	return nil
}

func (s *Service) createUser(ctx context.Context, in models.SignUpSchema) (*models.User, error) {
	if problems := ValidatePassword(in.Password, in.Username, in.Email); len(problems) > 0 {
		return nil, errx.BadRequest(strings.Join(problems, " "))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, errx.Internal(err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errx.New(err, http.StatusConflict, "Error creating user")
		}
		return nil, errx.Internal(err)
	}

	s.logger.Info("user created", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login verifies the credentials and returns the user's bearer token,
// issuing one when the user has none.
func (s *Service) Login(ctx context.Context, in models.LoginSchema) (*models.Token, error) {
	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, errx.Internal(err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		return nil, errx.Unauthorized(msgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errx.Unauthorized(msgInvalidCredentials)
	}
	if !user.IsActive {
		return nil, errx.Unauthorized(msgInactive)
	}

	key, err := newTokenKey()
	if err != nil {
		return nil, errx.Internal(err)
	}
	token, err := s.tokens.GetOrCreate(ctx, user.ID, key)
	if err != nil {
		return nil, errx.Internal(err)
	}
	token.User = user
	return token, nil
}

// Logout deletes the user's token.
func (s *Service) Logout(ctx context.Context, user *models.User) error {
	err := s.tokens.DeleteForUser(ctx, user.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errx.BadRequest("Token not found")
	case err != nil:
		return errx.Internal(err)
	}
	return nil
}

// Authenticate resolves a bearer token to an active user.
func (s *Service) Authenticate(ctx context.Context, raw string) (*models.User, error) {
	token, err := s.tokens.FindByKey(ctx, raw)
	switch {
	case err == nil:
		return activeUser(token.User)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, errx.Internal(err)
	case s.external == nil:
		return nil, errx.Unauthorized(msgInvalidToken)
	}

	email, err := s.external.VerifyEmail(ctx, raw)
	if err != nil {
		s.logger.Debug("external token rejected", zap.Error(err))
		return nil, errx.Unauthorized(msgInvalidToken)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errx.Unauthorized(msgInvalidToken)
		}
		return nil, errx.Internal(err)
	}
	return activeUser(user)
}

func activeUser(u *models.User) (*models.User, error) {
	if u == nil {
		return nil, errx.Unauthorized(msgInvalidToken)
	}
	if !u.IsActive {
		return nil, errx.Unauthorized(msgInactive)
	}
	return u, nil
}

// newTokenKey returns 40 random hex characters.
func newTokenKey() (string, error) {
	b := make([]byte, tokenKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
