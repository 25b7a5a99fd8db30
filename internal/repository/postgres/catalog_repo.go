package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oyilmaz/ratehub/internal/models"
)

type categoriesRepo struct{ pool *pgxpool.Pool }

func (r *categoriesRepo) Create(ctx context.Context, c models.Category) (models.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO categories(id, name, slug) VALUES($1,$2,$3)`, c.ID, c.Name, c.Slug)
	return c, translate(err, "category not found")
}

func (r *categoriesRepo) GetBySlug(ctx context.Context, slug string) (models.Category, error) {
	var c models.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name, slug FROM categories WHERE slug=$1`, slug).
		Scan(&c.ID, &c.Name, &c.Slug)
	return c, translate(err, "category not found")
}

func (r *categoriesRepo) List(ctx context.Context, limit, offset int) ([]models.Category, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug FROM categories ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *categoriesRepo) Delete(ctx context.Context, slug string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE slug=$1`, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateNoRows("category not found")
	}
	return nil
}

type genresRepo struct{ pool *pgxpool.Pool }

func (r *genresRepo) Create(ctx context.Context, g models.Genre) (models.Genre, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO genres(id, name, slug) VALUES($1,$2,$3)`, g.ID, g.Name, g.Slug)
	return g, translate(err, "genre not found")
}

func (r *genresRepo) GetBySlug(ctx context.Context, slug string) (models.Genre, error) {
	var g models.Genre
	err := r.pool.QueryRow(ctx, `SELECT id, name, slug FROM genres WHERE slug=$1`, slug).
		Scan(&g.ID, &g.Name, &g.Slug)
	return g, translate(err, "genre not found")
}

func (r *genresRepo) List(ctx context.Context, limit, offset int) ([]models.Genre, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM genres`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug FROM genres ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	return out, total, rows.Err()
}

func (r *genresRepo) Delete(ctx context.Context, slug string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM genres WHERE slug=$1`, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateNoRows("genre not found")
	}
	return nil
}
