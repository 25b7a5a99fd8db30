package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/authz"
	"github.com/oyilmaz/ratehub/internal/models"
)

func newCommentFixture(t *testing.T) (*CommentService, *reviewFixture, models.Review) {
	t.Helper()
	ctx := context.Background()
	f := newReviewFixture(t)

	reviewSvc := NewReviewService(f.repos.Reviews, f.repos.Titles, discardLog())
	rev, err := reviewSvc.Create(ctx, f.alice, f.title.ID, "masterpiece", 8)
	require.NoError(t, err)

	svc := NewCommentService(f.repos.Comments, f.repos.Reviews, f.repos.Titles, discardLog())
	return svc, f, rev
}

func TestCommentLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, f, rev := newCommentFixture(t)

	c, err := svc.Create(ctx, f.bob, f.title.ID, rev.ID, "agreed")
	require.NoError(t, err)
	assert.Equal(t, "bob", c.Author)

	got, err := svc.Get(ctx, f.title.ID, rev.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "agreed", got.Text)

	text := "strongly agreed"
	updated, err := svc.Update(ctx, f.bob, f.title.ID, rev.ID, c.ID, CommentPatch{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "strongly agreed", updated.Text)

	list, total, err := svc.List(ctx, f.title.ID, rev.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, f.bob, f.title.ID, rev.ID, c.ID))

	_, err = svc.Get(ctx, f.title.ID, rev.ID, c.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestCommentAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, f, rev := newCommentFixture(t)

	_, err := svc.Create(ctx, authz.Actor{}, f.title.ID, rev.ID, "drive-by")
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))

	c, err := svc.Create(ctx, f.bob, f.title.ID, rev.ID, "agreed")
	require.NoError(t, err)

	// alice is the review author but not the comment author
	err = svc.Delete(ctx, f.alice, f.title.ID, rev.ID, c.ID)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	// a moderator can delete anyone's comment
	require.NoError(t, svc.Delete(ctx, f.mod, f.title.ID, rev.ID, c.ID))
}

func TestCommentUnknownParents(t *testing.T) {
	ctx := context.Background()
	svc, f, rev := newCommentFixture(t)

	_, err := svc.Create(ctx, f.bob, "no-such-title", rev.ID, "lost")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = svc.Create(ctx, f.bob, f.title.ID, "no-such-review", "lost")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, _, err = svc.List(ctx, f.title.ID, "no-such-review", 10, 0)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
