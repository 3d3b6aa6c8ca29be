package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkghash "github.com/Skotchmaster/shopfront/internal/hash"
	"github.com/Skotchmaster/shopfront/internal/logging"
	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/repo"
)

// bcrypt only accepts passwords up to 72 bytes.
const maxPasswordBytes = 72

type UserRepo interface {
	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type TokenIssuer interface {
	IssueToken(userID uint) (string, time.Time, error)
}

type AuthService struct {
	Repo   UserRepo
	Issuer TokenIssuer
	Events Publisher
}

type LoginResult struct {
	AccessToken string
	AccessExp   time.Time
	User        models.User
}

// CreateUser checks username then email before inserting. The unique
// indexes still decide races between concurrent signups.
func (s *AuthService) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.create_user", "username", username)

	if username == "" || email == "" || password == "" {
		return nil, validationError("missing required fields")
	}
	if len(password) > maxPasswordBytes {
		return nil, validationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	taken, err := s.Repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		l.Warn("create_user_rejected", "reason", "username already exists")
		return nil, ErrUsernameTaken
	}

	taken, err = s.Repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		l.Warn("create_user_rejected", "reason", "email already exists")
		return nil, ErrEmailTaken
	}

	pwHash, err := pkghash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.Repo.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
	})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		case errors.Is(err, repo.ErrEmailTaken):
			return nil, ErrEmailTaken
		case errors.Is(err, repo.ErrDuplicate):
			return nil, fmt.Errorf("%w: username or email already exists", ErrConflict)
		}
		return nil, err
	}

	publish(ctx, s.Events, UserEventsTopic, user.ID, map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})
	l.Info("create_user_success", "user_id", user.ID)
	return user, nil
}

// VerifyCredentials reports unknown users and wrong passwords with the same
// ErrInvalidCredentials.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkghash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, validationError("username and password are required")
	}

	user, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			l.Warn("login_failed", "reason", "invalid username or password")
		}
		return nil, err
	}

	token, exp, err := s.Issuer.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, UserEventsTopic, user.ID, map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})
	l.Info("login_success", "user_id", user.ID)
	return &LoginResult{AccessToken: token, AccessExp: exp, User: *user}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}
