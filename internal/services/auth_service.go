package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/auth"
	"github.com/oyilmaz/ratehub/internal/config"
	"github.com/oyilmaz/ratehub/internal/mail"
	"github.com/oyilmaz/ratehub/internal/metrics"
	"github.com/oyilmaz/ratehub/internal/models"
	repo "github.com/oyilmaz/ratehub/internal/repository"
)

const (
	mailSubject = "Confirmation code"
	mailBody    = "Your confirmation code: %s"
)

type AuthService struct {
	users  repo.Users
	mailer mail.Mailer
	tm     *auth.TokenManager
	cfg    config.Config
	log    *slog.Logger
}

func NewAuthService(users repo.Users, mailer mail.Mailer, tm *auth.TokenManager, cfg config.Config, log *slog.Logger) *AuthService {
	return &AuthService{users: users, mailer: mailer, tm: tm, cfg: cfg, log: log}
}

// Signup creates the account on first contact and (re)issues a confirmation
// code. Repeating signup with the same (username, email) pair is allowed and
// simply sends a fresh code; a clash on only one of the two fields is
// rejected so an account cannot be hijacked.
func (s *AuthService) Signup(ctx context.Context, username, email string) error {
	if err := models.ValidateUsername(username, s.cfg.ReservedUsername, s.cfg.MaxUsernameLen); err != nil {
		return err
	}
	if err := models.ValidateEmail(email, s.cfg.MaxEmailLen); err != nil {
		return err
	}

	user, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if user.Email != email {
			return apperr.AlreadyExists("username already taken")
		}
	case apperr.Is(err, apperr.CodeNotFound):
		if _, e := s.users.GetByEmail(ctx, email); e == nil {
			return apperr.AlreadyExists("email already taken")
		} else if !apperr.Is(e, apperr.CodeNotFound) {
			return e
		}
		user, err = s.users.Create(ctx, models.User{Username: username, Email: email, Role: models.RoleUser})
		if err != nil {
			return err
		}
	default:
		return err
	}

	code, err := auth.NewCode(s.cfg.CodeLength, s.cfg.CodeAlphabet)
	if err != nil {
		return err
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return err
	}
	if err := s.users.SetCode(ctx, user.ID, hash, time.Now().Add(s.cfg.CodeTTL)); err != nil {
		return err
	}

	// A failed send aborts the request; the stored code is harmless and
	// gets replaced on the next signup attempt.
	if err := s.mailer.Send(ctx, email, mailSubject, fmt.Sprintf(mailBody, code)); err != nil {
		return err
	}
	metrics.CodesIssued.Inc()
	s.log.Info("confirmation code issued", "username", username)
	return nil
}

// Token exchanges a confirmation code for an access token. Codes are single
// use: the stored hash is cleared before the token is signed.
func (s *AuthService) Token(ctx context.Context, username, code string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u.CodeHash == "" || u.CodeExpiresAt == nil || time.Now().After(*u.CodeExpiresAt) ||
		!auth.CheckCode(code, u.CodeHash) {
		return "", apperr.InvalidCode("invalid confirmation code")
	}
	if err := s.users.ClearCode(ctx, u.ID); err != nil {
		return "", err
	}
	token, err := s.tm.Issue(u.ID, string(u.Role))
	if err != nil {
		return "", err
	}
	metrics.TokensIssued.Inc()
	s.log.Info("token issued", "username", username)
	return token, nil
}
