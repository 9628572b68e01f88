// Package auth drives the login, signup, and logout flows. It is the only
// code that writes the session token; the API client just reads it.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/knowbargain/kbargain/internal/domain"
	"github.com/knowbargain/kbargain/internal/session"
)

// Service exchanges credentials for a bearer token and manages the session
// lifecycle around it.
type Service struct {
	gw       domain.Gateway
	session  *session.Session
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService creates an auth service operating on the given session.
func NewService(gw domain.Gateway, sess *session.Session, logger *slog.Logger) *Service {
	return &Service{
		gw:       gw,
		session:  sess,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "auth")),
	}
}

// Login authenticates and stores the returned token in the session.
// Credential shape problems fail client-side before any network call.
func (s *Service) Login(ctx context.Context, email, password string) error {
	creds := domain.Credentials{Email: email, Password: password}
	if err := s.validate.Struct(creds); err != nil {
		return fmt.Errorf("auth: %w: %v", domain.ErrValidation, err)
	}

	res, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("auth: login: %w", err)
	}
	if err := s.session.SetToken(res.Token); err != nil {
		return fmt.Errorf("auth: persist token: %w", err)
	}

	s.logger.InfoContext(ctx, "logged in", slog.Int64("user_id", res.UserID))
	return nil
}

// Signup creates an account and stores its token in the session.
func (s *Service) Signup(ctx context.Context, username, email, password string) error {
	reg := domain.Registration{Username: username, Email: email, Password: password}
	if err := s.validate.Struct(reg); err != nil {
		return fmt.Errorf("auth: %w: %v", domain.ErrValidation, err)
	}

	res, err := s.gw.Signup(ctx, username, email, password)
	if err != nil {
		return fmt.Errorf("auth: signup: %w", err)
	}
	if err := s.session.SetToken(res.Token); err != nil {
		return fmt.Errorf("auth: persist token: %w", err)
	}

	s.logger.InfoContext(ctx, "account created", slog.String("username", username))
	return nil
}

// Logout clears the session.
func (s *Service) Logout() error {
	if err := s.session.Clear(); err != nil {
		return fmt.Errorf("auth: logout: %w", err)
	}
	return nil
}

// Me returns the current user's account.
func (s *Service) Me(ctx context.Context) (domain.User, error) {
	if !s.session.Authenticated() {
		return domain.User{}, fmt.Errorf("auth: %w", domain.ErrAuthRequired)
	}
	return s.gw.Me(ctx)
}

// Stats returns the current user's engagement statistics.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	if !s.session.Authenticated() {
		return domain.Stats{}, fmt.Errorf("auth: %w", domain.ErrAuthRequired)
	}
	return s.gw.UserStats(ctx)
}
