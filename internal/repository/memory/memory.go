// Package memory holds mutex-guarded in-memory implementations of the
// repository interfaces. They back the test suites and enforce the same
// constraints the SQL schema does, including atomic one-review-per-title.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/models"
	repo "github.com/oyilmaz/ratehub/internal/repository"
)

type Store struct {
	mu sync.Mutex

	users    map[string]models.User
	cats     map[string]models.Category // by slug
	genres   map[string]models.Genre    // by slug
	titles   map[string]models.Title
	reviews  map[string]models.Review
	comments map[string]models.Comment
}

type Repositories struct {
	Users      repo.Users
	Categories repo.Categories
	Genres     repo.Genres
	Titles     repo.Titles
	Reviews    repo.Reviews
	Comments   repo.Comments
}

func NewRepositories() Repositories {
	s := &Store{
		users:    map[string]models.User{},
		cats:     map[string]models.Category{},
		genres:   map[string]models.Genre{},
		titles:   map[string]models.Title{},
		reviews:  map[string]models.Review{},
		comments: map[string]models.Comment{},
	}
	return Repositories{
		Users:      &usersRepo{s},
		Categories: &categoriesRepo{s},
		Genres:     &genresRepo{s},
		Titles:     &titlesRepo{s},
		Reviews:    &reviewsRepo{s},
		Comments:   &commentsRepo{s},
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ----- users -----

type usersRepo struct{ s *Store }

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if other.Username == u.Username {
			return models.User{}, apperr.AlreadyExists("username already taken")
		}
		if other.Email == u.Email {
			return models.User{}, apperr.AlreadyExists("email already taken")
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = u
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, apperr.NotFound("user not found")
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperr.NotFound("user not found")
}

func (r *usersRepo) List(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return page(out, limit, offset), len(r.s.users), nil
}

func (r *usersRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.users[u.ID]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	for id, other := range r.s.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username {
			return models.User{}, apperr.AlreadyExists("username already taken")
		}
		if other.Email == u.Email {
			return models.User{}, apperr.AlreadyExists("email already taken")
		}
	}
	u.CreatedAt = old.CreatedAt
	u.UpdatedAt = time.Now()
	r.s.users[u.ID] = u
	return u, nil
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(r.s.users, id)
	for rid, rev := range r.s.reviews {
		if rev.AuthorID == id {
			delete(r.s.reviews, rid)
			for cid, c := range r.s.comments {
				if c.ReviewID == rid {
					delete(r.s.comments, cid)
				}
			}
		}
	}
	for cid, c := range r.s.comments {
		if c.AuthorID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

func (r *usersRepo) SetCode(ctx context.Context, id, hash string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.CodeHash = hash
	u.CodeExpiresAt = &expiresAt
	r.s.users[id] = u
	return nil
}

func (r *usersRepo) ClearCode(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil
	}
	u.CodeHash = ""
	u.CodeExpiresAt = nil
	r.s.users[id] = u
	return nil
}

// ----- categories / genres -----

type categoriesRepo struct{ s *Store }

func (r *categoriesRepo) Create(ctx context.Context, c models.Category) (models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cats[c.Slug]; ok {
		return models.Category{}, apperr.AlreadyExists("slug already taken")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.s.cats[c.Slug] = c
	return c, nil
}

func (r *categoriesRepo) GetBySlug(ctx context.Context, slug string) (models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cats[slug]
	if !ok {
		return models.Category{}, apperr.NotFound("category not found")
	}
	return c, nil
}

func (r *categoriesRepo) List(ctx context.Context, limit, offset int) ([]models.Category, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Category, 0, len(r.s.cats))
	for _, c := range r.s.cats {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), len(r.s.cats), nil
}

func (r *categoriesRepo) Delete(ctx context.Context, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cats[slug]
	if !ok {
		return apperr.NotFound("category not found")
	}
	delete(r.s.cats, slug)
	for id, t := range r.s.titles {
		if t.Category.ID == c.ID {
			delete(r.s.titles, id)
		}
	}
	return nil
}

type genresRepo struct{ s *Store }

func (r *genresRepo) Create(ctx context.Context, g models.Genre) (models.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.genres[g.Slug]; ok {
		return models.Genre{}, apperr.AlreadyExists("slug already taken")
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	r.s.genres[g.Slug] = g
	return g, nil
}

func (r *genresRepo) GetBySlug(ctx context.Context, slug string) (models.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.genres[slug]
	if !ok {
		return models.Genre{}, apperr.NotFound("genre not found")
	}
	return g, nil
}

func (r *genresRepo) List(ctx context.Context, limit, offset int) ([]models.Genre, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Genre, 0, len(r.s.genres))
	for _, g := range r.s.genres {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), len(r.s.genres), nil
}

func (r *genresRepo) Delete(ctx context.Context, slug string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.genres[slug]; !ok {
		return apperr.NotFound("genre not found")
	}
	delete(r.s.genres, slug)
	return nil
}

// ----- titles -----

type titlesRepo struct{ s *Store }

func (r *titlesRepo) Create(ctx context.Context, t models.Title) (models.Title, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Genres == nil {
		t.Genres = []models.Genre{}
	}
	t.Rating = nil
	r.s.titles[t.ID] = t
	return t, nil
}

func (r *titlesRepo) GetByID(ctx context.Context, id string) (models.Title, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.titles[id]
	if !ok {
		return models.Title{}, apperr.NotFound("title not found")
	}
	return t, nil
}

func (r *titlesRepo) List(ctx context.Context, f repo.TitleFilter, limit, offset int) ([]models.Title, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Title{}
	for _, t := range r.s.titles {
		if f.Category != "" && t.Category.Slug != f.Category {
			continue
		}
		if f.Year != 0 && t.Year != f.Year {
			continue
		}
		if f.Name != "" && !containsFold(t.Name, f.Name) {
			continue
		}
		if f.Genre != "" && !hasGenre(t, f.Genre) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := len(out)
	return page(out, limit, offset), total, nil
}

func (r *titlesRepo) Update(ctx context.Context, t models.Title) (models.Title, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.titles[t.ID]; !ok {
		return models.Title{}, apperr.NotFound("title not found")
	}
	if t.Genres == nil {
		t.Genres = []models.Genre{}
	}
	r.s.titles[t.ID] = t
	return t, nil
}

func (r *titlesRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.titles[id]; !ok {
		return apperr.NotFound("title not found")
	}
	delete(r.s.titles, id)
	for rid, rev := range r.s.reviews {
		if rev.TitleID == id {
			delete(r.s.reviews, rid)
			for cid, c := range r.s.comments {
				if c.ReviewID == rid {
					delete(r.s.comments, cid)
				}
			}
		}
	}
	return nil
}

// ----- reviews -----

type reviewsRepo struct{ s *Store }

func (r *reviewsRepo) Create(ctx context.Context, rev models.Review) (models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// check-and-insert under the store lock, same guarantee as the SQL
	// unique constraint
	for _, other := range r.s.reviews {
		if other.AuthorID == rev.AuthorID && other.TitleID == rev.TitleID {
			return models.Review{}, apperr.DuplicateReview()
		}
	}
	if rev.ID == "" {
		rev.ID = uuid.NewString()
	}
	rev.CreatedAt = time.Now()
	if u, ok := r.s.users[rev.AuthorID]; ok {
		rev.Author = u.Username
	}
	r.s.reviews[rev.ID] = rev
	return rev, nil
}

func (r *reviewsRepo) Get(ctx context.Context, titleID, reviewID string) (models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rev, ok := r.s.reviews[reviewID]
	if !ok || rev.TitleID != titleID {
		return models.Review{}, apperr.NotFound("review not found")
	}
	return rev, nil
}

func (r *reviewsRepo) ListByTitle(ctx context.Context, titleID string, limit, offset int) ([]models.Review, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Review{}
	for _, rev := range r.s.reviews {
		if rev.TitleID == titleID {
			out = append(out, rev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	return page(out, limit, offset), total, nil
}

func (r *reviewsRepo) Update(ctx context.Context, rev models.Review) (models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.reviews[rev.ID]
	if !ok {
		return models.Review{}, apperr.NotFound("review not found")
	}
	old.Text = rev.Text
	old.Score = rev.Score
	r.s.reviews[rev.ID] = old
	return old, nil
}

func (r *reviewsRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return apperr.NotFound("review not found")
	}
	delete(r.s.reviews, id)
	for cid, c := range r.s.comments {
		if c.ReviewID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

func (r *reviewsRepo) AverageScore(ctx context.Context, titleID string) (*float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum, n int
	for _, rev := range r.s.reviews {
		if rev.TitleID == titleID {
			sum += rev.Score
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := float64(sum) / float64(n)
	return &avg, nil
}

// ----- comments -----

type commentsRepo struct{ s *Store }

func (r *commentsRepo) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	if u, ok := r.s.users[c.AuthorID]; ok {
		c.Author = u.Username
	}
	r.s.comments[c.ID] = c
	return c, nil
}

func (r *commentsRepo) Get(ctx context.Context, reviewID, commentID string) (models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return models.Comment{}, apperr.NotFound("comment not found")
	}
	return c, nil
}

func (r *commentsRepo) ListByReview(ctx context.Context, reviewID string, limit, offset int) ([]models.Comment, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Comment{}
	for _, c := range r.s.comments {
		if c.ReviewID == reviewID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	return page(out, limit, offset), total, nil
}

func (r *commentsRepo) Update(ctx context.Context, c models.Comment) (models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.comments[c.ID]
	if !ok {
		return models.Comment{}, apperr.NotFound("comment not found")
	}
	old.Text = c.Text
	r.s.comments[c.ID] = old
	return old, nil
}

func (r *commentsRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return apperr.NotFound("comment not found")
	}
	delete(r.s.comments, id)
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func hasGenre(t models.Title, slug string) bool {
	for _, g := range t.Genres {
		if g.Slug == slug {
			return true
		}
	}
	return false
}
