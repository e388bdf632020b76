package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reelist/reelist-api/internal/domain/entity"
	repo "github.com/reelist/reelist-api/internal/domain/repository"
	"github.com/reelist/reelist-api/pkg/helpers"
	"github.com/reelist/reelist-api/pkg/mailer"
)

// EmailEnqueuer publishes an email job for asynchronous delivery.
// Satisfied by helpers.RabbitPublisher.
type EmailEnqueuer interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService registers accounts and authenticates logins. It owns the
// email-uniqueness rule and never stores or compares plaintext passwords.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Pub    EmailEnqueuer
	Logger *logrus.Logger
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, pub EmailEnqueuer, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Pub: pub, Logger: logger}
}

// Register creates a new account. The email must not exist yet
// (case-sensitive exact match); the password is bcrypt-hashed before
// it ever reaches the repository.
func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	u := &entity.User{
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return err
	}

	// Welcome email is best-effort; registration already succeeded.
	if s.Pub != nil {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: mailer.TemplateWelcome,
			Data:     map[string]any{"Username": u.Username},
		}
		if pErr := s.Pub.PublishJSON(ctx, job); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("email", u.Email).Warn("enqueue welcome email failed")
		}
	}
	return nil
}

// Login verifies the credentials and mints a bearer token bound to the
// account. No session state is kept server-side.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, err
	}
	if u == nil {
		return "", time.Time{}, ErrUserNotFound
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.GenerateToken(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return "", time.Time{}, err
	}
	return token, exp, nil
}
