package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/models"
)

func TestUserDeleteCascades(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	alice, err := repos.Users.Create(ctx, models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleUser})
	require.NoError(t, err)
	bob, err := repos.Users.Create(ctx, models.User{Username: "bob", Email: "bob@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	title, err := repos.Titles.Create(ctx, models.Title{Name: "Dune", Year: 2021})
	require.NoError(t, err)

	rev, err := repos.Reviews.Create(ctx, models.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "great", Score: 9})
	require.NoError(t, err)
	// bob comments on alice's review
	c, err := repos.Comments.Create(ctx, models.Comment{ReviewID: rev.ID, AuthorID: bob.ID, Text: "agreed"})
	require.NoError(t, err)

	require.NoError(t, repos.Users.Delete(ctx, alice.ID))

	_, err = repos.Reviews.Get(ctx, title.ID, rev.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	// bob's comment goes with alice's review, same as the FK cascade
	_, err = repos.Comments.Get(ctx, rev.ID, c.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	// bob himself is untouched
	_, err = repos.Users.GetByID(ctx, bob.ID)
	assert.NoError(t, err)
}
