package repository

import (
	"context"
	"time"

	"github.com/oyilmaz/ratehub/internal/models"
)

// All lookups return apperr.NotFound when the row is missing; unique
// violations surface as apperr.AlreadyExists or apperr.DuplicateReview.

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, int, error)
	Update(ctx context.Context, u models.User) (models.User, error)
	Delete(ctx context.Context, id string) error

	SetCode(ctx context.Context, id, hash string, expiresAt time.Time) error
	ClearCode(ctx context.Context, id string) error
}

type Categories interface {
	Create(ctx context.Context, c models.Category) (models.Category, error)
	GetBySlug(ctx context.Context, slug string) (models.Category, error)
	List(ctx context.Context, limit, offset int) ([]models.Category, int, error)
	Delete(ctx context.Context, slug string) error
}

type Genres interface {
	Create(ctx context.Context, g models.Genre) (models.Genre, error)
	GetBySlug(ctx context.Context, slug string) (models.Genre, error)
	List(ctx context.Context, limit, offset int) ([]models.Genre, int, error)
	Delete(ctx context.Context, slug string) error
}

type TitleFilter struct {
	Category string // category slug
	Genre    string // genre slug
	Name     string // substring match
	Year     int    // 0 matches any year
}

type Titles interface {
	// Create persists the title with its category and genre links already
	// resolved to IDs by the caller.
	Create(ctx context.Context, t models.Title) (models.Title, error)
	GetByID(ctx context.Context, id string) (models.Title, error)
	List(ctx context.Context, f TitleFilter, limit, offset int) ([]models.Title, int, error)
	Update(ctx context.Context, t models.Title) (models.Title, error)
	Delete(ctx context.Context, id string) error
}

type Reviews interface {
	// Create relies on the store's (author_id, title_id) uniqueness
	// constraint; a violation comes back as apperr.DuplicateReview even
	// under concurrent inserts.
	Create(ctx context.Context, r models.Review) (models.Review, error)
	// Get scopes the lookup to a title so /titles/{t}/reviews/{id} with a
	// mismatched pair is a 404.
	Get(ctx context.Context, titleID, reviewID string) (models.Review, error)
	ListByTitle(ctx context.Context, titleID string, limit, offset int) ([]models.Review, int, error)
	Update(ctx context.Context, r models.Review) (models.Review, error)
	Delete(ctx context.Context, id string) error

	// AverageScore is the rating aggregator input: mean score over the
	// title's reviews, nil when it has none.
	AverageScore(ctx context.Context, titleID string) (*float64, error)
}

type Comments interface {
	Create(ctx context.Context, c models.Comment) (models.Comment, error)
	Get(ctx context.Context, reviewID, commentID string) (models.Comment, error)
	ListByReview(ctx context.Context, reviewID string, limit, offset int) ([]models.Comment, int, error)
	Update(ctx context.Context, c models.Comment) (models.Comment, error)
	Delete(ctx context.Context, id string) error
}
