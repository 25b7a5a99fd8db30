package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oyilmaz/ratehub/internal/apperr"
	repo "github.com/oyilmaz/ratehub/internal/repository"
)

type Repositories struct {
	Users      repo.Users
	Categories repo.Categories
	Genres     repo.Genres
	Titles     repo.Titles
	Reviews    repo.Reviews
	Comments   repo.Comments
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:      &usersRepo{pool},
		Categories: &categoriesRepo{pool},
		Genres:     &genresRepo{pool},
		Titles:     &titlesRepo{pool},
		Reviews:    &reviewsRepo{pool},
		Comments:   &commentsRepo{pool},
	}
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translateNoRows is for Exec paths where pgx reports zero affected rows
// instead of ErrNoRows.
func translateNoRows(msg string) error { return apperr.NotFound(msg) }

// translate turns driver errors into the shared taxonomy so callers never
// see a raw pgconn error for constraint races.
func translate(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(notFoundMsg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			switch pgErr.ConstraintName {
			case "one_review_per_title":
				return apperr.DuplicateReview()
			case "users_username_key":
				return apperr.AlreadyExists("username already taken")
			case "users_email_key":
				return apperr.AlreadyExists("email already taken")
			case "categories_slug_key", "genres_slug_key":
				return apperr.AlreadyExists("slug already taken")
			}
			return apperr.AlreadyExists("already exists")
		case foreignKeyViolation:
			// The parent row vanished between the caller's existence check
			// and this write.
			return apperr.NotFound(notFoundMsg)
		}
	}
	return err
}
