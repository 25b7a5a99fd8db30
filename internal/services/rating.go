package services

import (
	"context"

	repo "github.com/oyilmaz/ratehub/internal/repository"
)

// RatingFor computes a title's rating as the plain arithmetic mean of its
// review scores at read time. Nothing is cached or stored; a nil result means
// the title has no reviews yet.
func RatingFor(ctx context.Context, reviews repo.Reviews, titleID string) (*float64, error) {
	return reviews.AverageScore(ctx, titleID)
}
