package services

import (
	"context"
	"log/slog"

	"github.com/oyilmaz/ratehub/internal/authz"
	"github.com/oyilmaz/ratehub/internal/metrics"
	"github.com/oyilmaz/ratehub/internal/models"
	repo "github.com/oyilmaz/ratehub/internal/repository"
)

type ReviewService struct {
	reviews repo.Reviews
	titles  repo.Titles
	log     *slog.Logger
}

func NewReviewService(reviews repo.Reviews, titles repo.Titles, log *slog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, titles: titles, log: log}
}

type ReviewPatch struct {
	Text  *string
	Score *int
}

// Create validates everything before touching the store; the duplicate check
// itself is the store's unique constraint, so two concurrent submissions
// cannot both land.
func (s *ReviewService) Create(ctx context.Context, actor authz.Actor, titleID, text string, score int) (models.Review, error) {
	if err := authz.CanWrite(actor); err != nil {
		return models.Review{}, err
	}
	if _, err := s.titles.GetByID(ctx, titleID); err != nil {
		return models.Review{}, err
	}
	if err := models.ValidateText(text); err != nil {
		return models.Review{}, err
	}
	if err := models.ValidateScore(score); err != nil {
		return models.Review{}, err
	}
	rev, err := s.reviews.Create(ctx, models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     text,
		Score:    score,
	})
	if err != nil {
		return models.Review{}, err
	}
	metrics.ReviewsTotal.WithLabelValues("created").Inc()
	s.log.Info("review created", "review_id", rev.ID, "title_id", titleID, "author_id", actor.ID)
	return rev, nil
}

func (s *ReviewService) List(ctx context.Context, titleID string, limit, offset int) ([]models.Review, int, error) {
	if _, err := s.titles.GetByID(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(ctx, titleID, limit, offset)
}

func (s *ReviewService) Get(ctx context.Context, titleID, reviewID string) (models.Review, error) {
	if _, err := s.titles.GetByID(ctx, titleID); err != nil {
		return models.Review{}, err
	}
	return s.reviews.Get(ctx, titleID, reviewID)
}

func (s *ReviewService) Update(ctx context.Context, actor authz.Actor, titleID, reviewID string, p ReviewPatch) (models.Review, error) {
	rev, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if err := authz.CanModify(actor, rev.AuthorID); err != nil {
		return models.Review{}, err
	}
	if p.Text != nil {
		if err := models.ValidateText(*p.Text); err != nil {
			return models.Review{}, err
		}
		rev.Text = *p.Text
	}
	if p.Score != nil {
		if err := models.ValidateScore(*p.Score); err != nil {
			return models.Review{}, err
		}
		rev.Score = *p.Score
	}
	rev, err = s.reviews.Update(ctx, rev)
	if err != nil {
		return models.Review{}, err
	}
	metrics.ReviewsTotal.WithLabelValues("updated").Inc()
	return rev, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor authz.Actor, titleID, reviewID string) error {
	rev, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := authz.CanModify(actor, rev.AuthorID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, rev.ID); err != nil {
		return err
	}
	metrics.ReviewsTotal.WithLabelValues("deleted").Inc()
	s.log.Info("review deleted", "review_id", rev.ID, "title_id", titleID, "actor_id", actor.ID)
	return nil
}

// Rating exposes the aggregator for a single title, 404 when the title is
// unknown.
func (s *ReviewService) Rating(ctx context.Context, titleID string) (*float64, error) {
	if _, err := s.titles.GetByID(ctx, titleID); err != nil {
		return nil, err
	}
	return RatingFor(ctx, s.reviews, titleID)
}
