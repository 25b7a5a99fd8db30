// Package authz is the single place role and ownership rules live. Handlers
// and services ask it for a decision instead of comparing role strings.
package authz

import (
	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/models"
)

// Actor is the requesting identity. The zero value is an anonymous request.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) Authenticated() bool { return a.ID != "" }

func (a Actor) IsAdmin() bool     { return a.Role == models.RoleAdmin }
func (a Actor) IsModerator() bool { return a.Role == models.RoleModerator }

// CanWrite is the collection-level check for user-writable collections
// (reviews, comments): any authenticated actor may create.
func CanWrite(a Actor) error {
	if !a.Authenticated() {
		return apperr.Unauthenticated("authentication required")
	}
	return nil
}

// CanAdmin is the collection-level check for admin-only collections
// (categories, genres, titles, user management).
func CanAdmin(a Actor) error {
	if !a.Authenticated() {
		return apperr.Unauthenticated("authentication required")
	}
	if !a.IsAdmin() {
		return apperr.Forbidden("admin role required")
	}
	return nil
}

// CanModify is the object-level check: mutating a resource requires being its
// author, a moderator or an admin. Reads never go through here.
func CanModify(a Actor, authorID string) error {
	if !a.Authenticated() {
		return apperr.Unauthenticated("authentication required")
	}
	if a.ID == authorID || a.IsModerator() || a.IsAdmin() {
		return nil
	}
	return apperr.Forbidden("not the author, moderator or admin")
}
