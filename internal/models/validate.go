package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oyilmaz/ratehub/internal/apperr"
)

// Same character class the catalog of usernames was built with: letters,
// digits and @/./+/-/_.
var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

const (
	MinScore = 1
	MaxScore = 10
)

// ValidateUsername checks format, length and the reserved word. The reserved
// comparison is case-insensitive ("me" and "ME" are equally forbidden).
func ValidateUsername(username, reserved string, maxLen int) error {
	if username == "" {
		return apperr.Validation("username is required", nil)
	}
	if len(username) > maxLen {
		return apperr.Validation(fmt.Sprintf("username must be at most %d characters", maxLen), nil)
	}
	if !usernameRe.MatchString(username) {
		return apperr.Validation("username may contain only letters, digits and @/./+/-/_", nil)
	}
	if strings.EqualFold(username, reserved) {
		return apperr.Validation(fmt.Sprintf("username %q is reserved", reserved), nil)
	}
	return nil
}

func ValidateEmail(email string, maxLen int) error {
	if email == "" {
		return apperr.Validation("email is required", nil)
	}
	if len(email) > maxLen {
		return apperr.Validation(fmt.Sprintf("email must be at most %d characters", maxLen), nil)
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return apperr.Validation("invalid email address", nil)
	}
	return nil
}

func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return apperr.Validation(fmt.Sprintf("score must be between %d and %d", MinScore, MaxScore), nil)
	}
	return nil
}

const (
	maxSlugLen = 50
	maxNameLen = 256
	maxTextLen = 500
)

func ValidateSlug(slug string) error {
	if slug == "" {
		return apperr.Validation("slug is required", nil)
	}
	if len(slug) > maxSlugLen {
		return apperr.Validation(fmt.Sprintf("slug must be at most %d characters", maxSlugLen), nil)
	}
	if !slugRe.MatchString(slug) {
		return apperr.Validation("slug may contain only letters, digits, hyphens and underscores", nil)
	}
	return nil
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("name is required", nil)
	}
	if len(name) > maxNameLen {
		return apperr.Validation(fmt.Sprintf("name must be at most %d characters", maxNameLen), nil)
	}
	return nil
}

// ValidateText bounds review and comment bodies.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.Validation("text is required", nil)
	}
	if len(text) > maxTextLen {
		return apperr.Validation(fmt.Sprintf("text must be at most %d characters", maxTextLen), nil)
	}
	return nil
}

// ValidateYear rejects release years after the current year.
func ValidateYear(year int) error {
	if now := time.Now().Year(); year > now {
		return apperr.Validation(fmt.Sprintf("year %d is after the current year %d", year, now), nil)
	}
	if year <= 0 {
		return apperr.Validation("year is required", nil)
	}
	return nil
}
