package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oyilmaz/ratehub/internal/models"
)

type reviewsRepo struct{ pool *pgxpool.Pool }

const reviewCols = `r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.created_at`

func (r *reviewsRepo) Create(ctx context.Context, rev models.Review) (models.Review, error) {
	if rev.ID == "" {
		rev.ID = uuid.NewString()
	}
	// The one_review_per_title constraint decides duplicates atomically;
	// no prior existence check is made here.
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews(id, title_id, author_id, text, score)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING created_at`,
		rev.ID, rev.TitleID, rev.AuthorID, rev.Text, rev.Score,
	).Scan(&rev.CreatedAt)
	if err != nil {
		return models.Review{}, translate(err, "review not found")
	}
	if rev.Author == "" {
		_ = r.pool.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, rev.AuthorID).Scan(&rev.Author)
	}
	return rev, nil
}

func (r *reviewsRepo) Get(ctx context.Context, titleID, reviewID string) (models.Review, error) {
	var rev models.Review
	err := r.pool.QueryRow(ctx,
		`SELECT `+reviewCols+`
		   FROM reviews r JOIN users u ON u.id = r.author_id
		  WHERE r.id=$1 AND r.title_id=$2`,
		reviewID, titleID,
	).Scan(&rev.ID, &rev.TitleID, &rev.AuthorID, &rev.Author, &rev.Text, &rev.Score, &rev.CreatedAt)
	return rev, translate(err, "review not found")
}

func (r *reviewsRepo) ListByTitle(ctx context.Context, titleID string, limit, offset int) ([]models.Review, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE title_id=$1`, titleID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+reviewCols+`
		   FROM reviews r JOIN users u ON u.id = r.author_id
		  WHERE r.title_id=$1
		  ORDER BY r.created_at DESC
		  LIMIT $2 OFFSET $3`,
		titleID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.TitleID, &rev.AuthorID, &rev.Author, &rev.Text, &rev.Score, &rev.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, rev)
	}
	return out, total, rows.Err()
}

func (r *reviewsRepo) Update(ctx context.Context, rev models.Review) (models.Review, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reviews SET text=$2, score=$3 WHERE id=$1`,
		rev.ID, rev.Text, rev.Score)
	if err != nil {
		return models.Review{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Review{}, translateNoRows("review not found")
	}
	return r.Get(ctx, rev.TitleID, rev.ID)
}

func (r *reviewsRepo) Delete(ctx context.Context, id string) error {
	// Comments go with the review via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateNoRows("review not found")
	}
	return nil
}

func (r *reviewsRepo) AverageScore(ctx context.Context, titleID string) (*float64, error) {
	// AVG over zero rows is NULL, which scans into a nil pointer.
	var avg *float64
	err := r.pool.QueryRow(ctx,
		`SELECT AVG(score)::float8 FROM reviews WHERE title_id=$1`, titleID,
	).Scan(&avg)
	return avg, err
}
