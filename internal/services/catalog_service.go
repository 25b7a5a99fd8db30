package services

import (
	"context"

	"github.com/oyilmaz/ratehub/internal/apperr"
	"github.com/oyilmaz/ratehub/internal/authz"
	"github.com/oyilmaz/ratehub/internal/models"
	repo "github.com/oyilmaz/ratehub/internal/repository"
)

type CatalogService struct {
	categories repo.Categories
	genres     repo.Genres
	titles     repo.Titles
	reviews    repo.Reviews
}

func NewCatalogService(c repo.Categories, g repo.Genres, t repo.Titles, r repo.Reviews) *CatalogService {
	return &CatalogService{categories: c, genres: g, titles: t, reviews: r}
}

// ----- categories -----

func (s *CatalogService) CreateCategory(ctx context.Context, actor authz.Actor, name, slug string) (models.Category, error) {
	if err := authz.CanAdmin(actor); err != nil {
		return models.Category{}, err
	}
	if err := models.ValidateName(name); err != nil {
		return models.Category{}, err
	}
	if err := models.ValidateSlug(slug); err != nil {
		return models.Category{}, err
	}
	return s.categories.Create(ctx, models.Category{Name: name, Slug: slug})
}

func (s *CatalogService) ListCategories(ctx context.Context, limit, offset int) ([]models.Category, int, error) {
	return s.categories.List(ctx, limit, offset)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, actor authz.Actor, slug string) error {
	if err := authz.CanAdmin(actor); err != nil {
		return err
	}
	return s.categories.Delete(ctx, slug)
}

// ----- genres -----

func (s *CatalogService) CreateGenre(ctx context.Context, actor authz.Actor, name, slug string) (models.Genre, error) {
	if err := authz.CanAdmin(actor); err != nil {
		return models.Genre{}, err
	}
	if err := models.ValidateName(name); err != nil {
		return models.Genre{}, err
	}
	if err := models.ValidateSlug(slug); err != nil {
		return models.Genre{}, err
	}
	return s.genres.Create(ctx, models.Genre{Name: name, Slug: slug})
}

func (s *CatalogService) ListGenres(ctx context.Context, limit, offset int) ([]models.Genre, int, error) {
	return s.genres.List(ctx, limit, offset)
}

func (s *CatalogService) DeleteGenre(ctx context.Context, actor authz.Actor, slug string) error {
	if err := authz.CanAdmin(actor); err != nil {
		return err
	}
	return s.genres.Delete(ctx, slug)
}

// ----- titles -----

type TitleInput struct {
	Name        string
	Year        int
	Description string
	Category    string   // category slug
	Genres      []string // genre slugs
}

// TitlePatch applies only set fields; Genres, when set, replaces the link set.
type TitlePatch struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

func (s *CatalogService) CreateTitle(ctx context.Context, actor authz.Actor, in TitleInput) (models.Title, error) {
	if err := authz.CanAdmin(actor); err != nil {
		return models.Title{}, err
	}
	if err := models.ValidateName(in.Name); err != nil {
		return models.Title{}, err
	}
	if err := models.ValidateYear(in.Year); err != nil {
		return models.Title{}, err
	}
	cat, genres, err := s.resolveRefs(ctx, in.Category, in.Genres)
	if err != nil {
		return models.Title{}, err
	}
	t := models.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
		Category:    cat,
		Genres:      genres,
	}
	return s.titles.Create(ctx, t)
}

// resolveRefs maps category and genre slugs to rows. An unknown slug is a
// validation error, not a 404: the missing thing is a field of the payload,
// not the requested resource.
func (s *CatalogService) resolveRefs(ctx context.Context, category string, genreSlugs []string) (models.Category, []models.Genre, error) {
	cat, err := s.categories.GetBySlug(ctx, category)
	if apperr.Is(err, apperr.CodeNotFound) {
		return models.Category{}, nil, apperr.Validation("unknown category: "+category, nil)
	}
	if err != nil {
		return models.Category{}, nil, err
	}
	genres := []models.Genre{}
	for _, slug := range genreSlugs {
		g, err := s.genres.GetBySlug(ctx, slug)
		if apperr.Is(err, apperr.CodeNotFound) {
			return models.Category{}, nil, apperr.Validation("unknown genre: "+slug, nil)
		}
		if err != nil {
			return models.Category{}, nil, err
		}
		genres = append(genres, g)
	}
	return cat, genres, nil
}

func (s *CatalogService) GetTitle(ctx context.Context, id string) (models.Title, error) {
	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return models.Title{}, err
	}
	t.Rating, err = RatingFor(ctx, s.reviews, t.ID)
	return t, err
}

func (s *CatalogService) ListTitles(ctx context.Context, f repo.TitleFilter, limit, offset int) ([]models.Title, int, error) {
	out, total, err := s.titles.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		if out[i].Rating, err = RatingFor(ctx, s.reviews, out[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

func (s *CatalogService) UpdateTitle(ctx context.Context, actor authz.Actor, id string, p TitlePatch) (models.Title, error) {
	if err := authz.CanAdmin(actor); err != nil {
		return models.Title{}, err
	}
	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return models.Title{}, err
	}
	if p.Name != nil {
		if err := models.ValidateName(*p.Name); err != nil {
			return models.Title{}, err
		}
		t.Name = *p.Name
	}
	if p.Year != nil {
		if err := models.ValidateYear(*p.Year); err != nil {
			return models.Title{}, err
		}
		t.Year = *p.Year
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		cat, err := s.categories.GetBySlug(ctx, *p.Category)
		if apperr.Is(err, apperr.CodeNotFound) {
			return models.Title{}, apperr.Validation("unknown category: "+*p.Category, nil)
		}
		if err != nil {
			return models.Title{}, err
		}
		t.Category = cat
	}
	if p.Genres != nil {
		_, genres, err := s.resolveRefs(ctx, t.Category.Slug, *p.Genres)
		if err != nil {
			return models.Title{}, err
		}
		t.Genres = genres
	}
	t, err = s.titles.Update(ctx, t)
	if err != nil {
		return models.Title{}, err
	}
	t.Rating, err = RatingFor(ctx, s.reviews, t.ID)
	return t, err
}

func (s *CatalogService) DeleteTitle(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.CanAdmin(actor); err != nil {
		return err
	}
	return s.titles.Delete(ctx, id)
}
