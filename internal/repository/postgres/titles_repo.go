package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oyilmaz/ratehub/internal/models"
	repo "github.com/oyilmaz/ratehub/internal/repository"
)

type titlesRepo struct{ pool *pgxpool.Pool }

func (r *titlesRepo) Create(ctx context.Context, t models.Title) (models.Title, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO titles(id, name, year, description, category_id) VALUES($1,$2,$3,$4,$5)`,
		t.ID, t.Name, t.Year, t.Description, t.Category.ID)
	if err != nil {
		return models.Title{}, translate(err, "title not found")
	}
	if err := r.setGenres(ctx, t.ID, t.Genres); err != nil {
		return models.Title{}, err
	}
	return r.GetByID(ctx, t.ID)
}

func (r *titlesRepo) setGenres(ctx context.Context, titleID string, genres []models.Genre) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM title_genres WHERE title_id=$1`, titleID); err != nil {
		return err
	}
	for _, g := range genres {
		if _, err := r.pool.Exec(ctx,
			`INSERT INTO title_genres(title_id, genre_id) VALUES($1,$2) ON CONFLICT DO NOTHING`,
			titleID, g.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *titlesRepo) GetByID(ctx context.Context, id string) (models.Title, error) {
	var t models.Title
	err := r.pool.QueryRow(ctx,
		`SELECT t.id, t.name, t.year, t.description, c.id, c.name, c.slug
		   FROM titles t JOIN categories c ON c.id = t.category_id
		  WHERE t.id=$1`, id,
	).Scan(&t.ID, &t.Name, &t.Year, &t.Description, &t.Category.ID, &t.Category.Name, &t.Category.Slug)
	if err != nil {
		return models.Title{}, translate(err, "title not found")
	}
	genres, err := r.genresFor(ctx, []string{t.ID})
	if err != nil {
		return models.Title{}, err
	}
	t.Genres = genres[t.ID]
	if t.Genres == nil {
		t.Genres = []models.Genre{}
	}
	return t, nil
}

func (r *titlesRepo) List(ctx context.Context, f repo.TitleFilter, limit, offset int) ([]models.Title, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Category != "" {
		where = append(where, "c.slug = "+arg(f.Category))
	}
	if f.Genre != "" {
		where = append(where, `EXISTS (SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = `+arg(f.Genre)+`)`)
	}
	if f.Name != "" {
		where = append(where, "t.name ILIKE '%' || "+arg(escapeLike(f.Name))+" || '%'")
	}
	if f.Year != 0 {
		where = append(where, "t.year = "+arg(f.Year))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQ := `SELECT COUNT(*) FROM titles t JOIN categories c ON c.id = t.category_id WHERE ` + cond
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	selectQ := `SELECT t.id, t.name, t.year, t.description, c.id, c.name, c.slug
		  FROM titles t JOIN categories c ON c.id = t.category_id
		 WHERE ` + cond + `
		 ORDER BY t.name` +
		" LIMIT " + arg(limit) + " OFFSET " + arg(offset)
	rows, err := r.pool.Query(ctx, selectQ, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Title{}
	ids := []string{}
	for rows.Next() {
		var t models.Title
		if err := rows.Scan(&t.ID, &t.Name, &t.Year, &t.Description,
			&t.Category.ID, &t.Category.Name, &t.Category.Slug); err != nil {
			return nil, 0, err
		}
		t.Genres = []models.Genre{}
		out = append(out, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		genres, err := r.genresFor(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range out {
			if g, ok := genres[out[i].ID]; ok {
				out[i].Genres = g
			}
		}
	}
	return out, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so a literal % or _ in a name
// filter matches itself instead of acting as a wildcard.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// genresFor loads genre links for a batch of titles in one query.
func (r *titlesRepo) genresFor(ctx context.Context, titleIDs []string) (map[string][]models.Genre, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tg.title_id, g.id, g.name, g.slug
		   FROM title_genres tg JOIN genres g ON g.id = tg.genre_id
		  WHERE tg.title_id = ANY($1::uuid[])
		  ORDER BY g.name`, titleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]models.Genre{}
	for rows.Next() {
		var titleID string
		var g models.Genre
		if err := rows.Scan(&titleID, &g.ID, &g.Name, &g.Slug); err != nil {
			return nil, err
		}
		out[titleID] = append(out[titleID], g)
	}
	return out, rows.Err()
}

func (r *titlesRepo) Update(ctx context.Context, t models.Title) (models.Title, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE titles SET name=$2, year=$3, description=$4, category_id=$5 WHERE id=$1`,
		t.ID, t.Name, t.Year, t.Description, t.Category.ID)
	if err != nil {
		return models.Title{}, translate(err, "title not found")
	}
	if tag.RowsAffected() == 0 {
		return models.Title{}, translateNoRows("title not found")
	}
	if err := r.setGenres(ctx, t.ID, t.Genres); err != nil {
		return models.Title{}, err
	}
	return r.GetByID(ctx, t.ID)
}

func (r *titlesRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM titles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateNoRows("title not found")
	}
	return nil
}
