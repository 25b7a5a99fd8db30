package services

import (
	"context"
	"log/slog"

	"github.com/oyilmaz/ratehub/internal/authz"
	"github.com/oyilmaz/ratehub/internal/metrics"
	"github.com/oyilmaz/ratehub/internal/models"
	repo "github.com/oyilmaz/ratehub/internal/repository"
)

type CommentService struct {
	comments repo.Comments
	reviews  repo.Reviews
	titles   repo.Titles
	log      *slog.Logger
}

func NewCommentService(comments repo.Comments, reviews repo.Reviews, titles repo.Titles, log *slog.Logger) *CommentService {
	return &CommentService{comments: comments, reviews: reviews, titles: titles, log: log}
}

type CommentPatch struct {
	Text *string
}

// parent verifies the (title, review) pair exists before anything else runs.
func (s *CommentService) parent(ctx context.Context, titleID, reviewID string) error {
	if _, err := s.titles.GetByID(ctx, titleID); err != nil {
		return err
	}
	_, err := s.reviews.Get(ctx, titleID, reviewID)
	return err
}

func (s *CommentService) Create(ctx context.Context, actor authz.Actor, titleID, reviewID, text string) (models.Comment, error) {
	if err := authz.CanWrite(actor); err != nil {
		return models.Comment{}, err
	}
	if err := s.parent(ctx, titleID, reviewID); err != nil {
		return models.Comment{}, err
	}
	if err := models.ValidateText(text); err != nil {
		return models.Comment{}, err
	}
	c, err := s.comments.Create(ctx, models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     text,
	})
	if err != nil {
		return models.Comment{}, err
	}
	metrics.CommentsTotal.WithLabelValues("created").Inc()
	s.log.Info("comment created", "comment_id", c.ID, "review_id", reviewID, "author_id", actor.ID)
	return c, nil
}

func (s *CommentService) List(ctx context.Context, titleID, reviewID string, limit, offset int) ([]models.Comment, int, error) {
	if err := s.parent(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByReview(ctx, reviewID, limit, offset)
}

func (s *CommentService) Get(ctx context.Context, titleID, reviewID, commentID string) (models.Comment, error) {
	if err := s.parent(ctx, titleID, reviewID); err != nil {
		return models.Comment{}, err
	}
	return s.comments.Get(ctx, reviewID, commentID)
}

func (s *CommentService) Update(ctx context.Context, actor authz.Actor, titleID, reviewID, commentID string, p CommentPatch) (models.Comment, error) {
	c, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return models.Comment{}, err
	}
	if err := authz.CanModify(actor, c.AuthorID); err != nil {
		return models.Comment{}, err
	}
	if p.Text != nil {
		if err := models.ValidateText(*p.Text); err != nil {
			return models.Comment{}, err
		}
		c.Text = *p.Text
	}
	c, err = s.comments.Update(ctx, c)
	if err != nil {
		return models.Comment{}, err
	}
	metrics.CommentsTotal.WithLabelValues("updated").Inc()
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, actor authz.Actor, titleID, reviewID, commentID string) error {
	c, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := authz.CanModify(actor, c.AuthorID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, c.ID); err != nil {
		return err
	}
	metrics.CommentsTotal.WithLabelValues("deleted").Inc()
	return nil
}
