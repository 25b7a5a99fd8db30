package services

import (
	"context"

	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/authz"
	"github.com/oyilmaz/ratehub/internal/config"
	"github.com/oyilmaz/ratehub/internal/models"
	repo "github.com/oyilmaz/ratehub/internal/repository"
)

type UserService struct {
	users repo.Users
	cfg   config.Config
}

func NewUserService(users repo.Users, cfg config.Config) *UserService {
	return &UserService{users: users, cfg: cfg}
}

// UserPatch applies only the fields that are set. Role is ignored on the
// self-service path.
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *models.Role
}

func (s *UserService) List(ctx context.Context, actor authz.Actor, limit, offset int) ([]models.User, int, error) {
	if err := authz.CanAdmin(actor); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, limit, offset)
}

func (s *UserService) Get(ctx context.Context, actor authz.Actor, username string) (models.User, error) {
	if err := authz.CanAdmin(actor); err != nil {
		return models.User{}, err
	}
	return s.users.GetByUsername(ctx, username)
}

// Create is the admin path; it may assign any role directly.
func (s *UserService) Create(ctx context.Context, actor authz.Actor, u models.User) (models.User, error) {
	if err := authz.CanAdmin(actor); err != nil {
		return models.User{}, err
	}
	if err := models.ValidateUsername(u.Username, s.cfg.ReservedUsername, s.cfg.MaxUsernameLen); err != nil {
		return models.User{}, err
	}
	if err := models.ValidateEmail(u.Email, s.cfg.MaxEmailLen); err != nil {
		return models.User{}, err
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if !u.Role.Valid() {
		return models.User{}, apperr.Validation("unknown role", nil)
	}
	return s.users.Create(ctx, u)
}

func (s *UserService) Update(ctx context.Context, actor authz.Actor, username string, p UserPatch) (models.User, error) {
	if err := authz.CanAdmin(actor); err != nil {
		return models.User{}, err
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	return s.apply(ctx, u, p, true)
}

func (s *UserService) Delete(ctx context.Context, actor authz.Actor, username string) error {
	if err := authz.CanAdmin(actor); err != nil {
		return err
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, u.ID)
}

func (s *UserService) Me(ctx context.Context, actor authz.Actor) (models.User, error) {
	if !actor.Authenticated() {
		return models.User{}, apperr.Unauthenticated("authentication required")
	}
	return s.users.GetByID(ctx, actor.ID)
}

// UpdateMe lets the actor edit their own profile. The role field is dropped,
// not rejected: only admins change roles.
func (s *UserService) UpdateMe(ctx context.Context, actor authz.Actor, p UserPatch) (models.User, error) {
	u, err := s.Me(ctx, actor)
	if err != nil {
		return models.User{}, err
	}
	return s.apply(ctx, u, p, false)
}

func (s *UserService) apply(ctx context.Context, u models.User, p UserPatch, allowRole bool) (models.User, error) {
	if p.Username != nil {
		if err := models.ValidateUsername(*p.Username, s.cfg.ReservedUsername, s.cfg.MaxUsernameLen); err != nil {
			return models.User{}, err
		}
		u.Username = *p.Username
	}
	if p.Email != nil {
		if err := models.ValidateEmail(*p.Email, s.cfg.MaxEmailLen); err != nil {
			return models.User{}, err
		}
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Role != nil && allowRole {
		if !p.Role.Valid() {
			return models.User{}, apperr.Validation("unknown role", nil)
		}
		u.Role = *p.Role
	}
	return s.users.Update(ctx, u)
}
