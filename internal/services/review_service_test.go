package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/authz"
	"github.com/oyilmaz/ratehub/internal/models"
	"github.com/oyilmaz/ratehub/internal/repository/memory"
)

type reviewFixture struct {
	svc   *ReviewService
	repos memory.Repositories
	title models.Title

	alice authz.Actor
	bob   authz.Actor
	mod   authz.Actor
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewRepositories()

	mkUser := func(name string, role models.Role) authz.Actor {
		u, err := repos.Users.Create(ctx, models.User{Username: name, Email: name + "@example.com", Role: role})
		require.NoError(t, err)
		return authz.Actor{ID: u.ID, Role: role}
	}

	title, err := repos.Titles.Create(ctx, models.Title{
		Name:     "Dune",
		Year:     2021,
		Category: models.Category{Name: "Movies", Slug: "movies"},
	})
	require.NoError(t, err)

	return &reviewFixture{
		svc:   NewReviewService(repos.Reviews, repos.Titles, discardLog()),
		repos: repos,
		title: title,
		alice: mkUser("alice", models.RoleUser),
		bob:   mkUser("bob", models.RoleUser),
		mod:   mkUser("mallory", models.RoleModerator),
	}
}

func TestReviewLifecycleAndRating(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)

	// no reviews yet: rating is absent, not zero
	rating, err := f.svc.Rating(ctx, f.title.ID)
	require.NoError(t, err)
	assert.Nil(t, rating)

	r1, err := f.svc.Create(ctx, f.alice, f.title.ID, "masterpiece", 8)
	require.NoError(t, err)
	assert.Equal(t, "alice", r1.Author)
	assert.Equal(t, 8, r1.Score)

	_, err = f.svc.Create(ctx, f.bob, f.title.ID, "decent", 6)
	require.NoError(t, err)

	rating, err = f.svc.Rating(ctx, f.title.ID)
	require.NoError(t, err)
	require.NotNil(t, rating)
	assert.InDelta(t, 7.0, *rating, 1e-9)

	// a second review from the same author is rejected
	_, err = f.svc.Create(ctx, f.alice, f.title.ID, "changed my mind", 3)
	assert.True(t, apperr.Is(err, apperr.CodeDuplicateReview))

	list, total, err := f.svc.List(ctx, f.title.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)
}

func TestReviewCreateConcurrent(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)

	// one author hammering the same title: exactly one submission lands,
	// every other one loses to the uniqueness guarantee
	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(ctx, f.alice, f.title.ID, "first one wins", 8)
		}(i)
	}
	wg.Wait()

	var created, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case apperr.Is(err, apperr.CodeDuplicateReview):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, dup)

	_, total, err := f.svc.List(ctx, f.title.ID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestReviewModeration(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)

	r1, err := f.svc.Create(ctx, f.alice, f.title.ID, "masterpiece", 8)
	require.NoError(t, err)
	r2, err := f.svc.Create(ctx, f.bob, f.title.ID, "decent", 6)
	require.NoError(t, err)

	// bob cannot edit alice's review
	text := "vandalism"
	_, err = f.svc.Update(ctx, f.bob, f.title.ID, r1.ID, ReviewPatch{Text: &text})
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	// the author can
	score := 9
	updated, err := f.svc.Update(ctx, f.alice, f.title.ID, r1.ID, ReviewPatch{Score: &score})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Score)

	// a moderator can remove someone else's review
	require.NoError(t, f.svc.Delete(ctx, f.mod, f.title.ID, r2.ID))

	rating, err := f.svc.Rating(ctx, f.title.ID)
	require.NoError(t, err)
	require.NotNil(t, rating)
	assert.InDelta(t, 9.0, *rating, 1e-9)
}

func TestReviewCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)

	_, err := f.svc.Create(ctx, authz.Actor{}, f.title.ID, "anonymous hot take", 5)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))

	_, err = f.svc.Create(ctx, f.alice, "no-such-title", "lost", 5)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	for _, score := range []int{0, 11} {
		_, err = f.svc.Create(ctx, f.alice, f.title.ID, "out of range", score)
		assert.True(t, apperr.Is(err, apperr.CodeValidation), "score %d", score)
	}

	_, err = f.svc.Create(ctx, f.alice, f.title.ID, "", 5)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = f.svc.Create(ctx, f.alice, f.title.ID, strings.Repeat("x", 501), 5)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestReviewGetScopedToTitle(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)

	other, err := f.repos.Titles.Create(ctx, models.Title{Name: "Arrival", Year: 2016})
	require.NoError(t, err)

	r1, err := f.svc.Create(ctx, f.alice, f.title.ID, "masterpiece", 8)
	require.NoError(t, err)

	// the review exists but does not belong to the other title
	_, err = f.svc.Get(ctx, other.ID, r1.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, _, err = f.svc.List(ctx, "no-such-title", 10, 0)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
