package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oyilmaz/ratehub/internal/models"
)

type commentsRepo struct{ pool *pgxpool.Pool }

const commentCols = `c.id, c.review_id, c.author_id, u.username, c.text, c.created_at`

func (r *commentsRepo) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO comments(id, review_id, author_id, text)
		 VALUES($1,$2,$3,$4)
		 RETURNING created_at`,
		c.ID, c.ReviewID, c.AuthorID, c.Text,
	).Scan(&c.CreatedAt)
	if err != nil {
		return models.Comment{}, translate(err, "comment not found")
	}
	if c.Author == "" {
		_ = r.pool.QueryRow(ctx, `SELECT username FROM users WHERE id=$1`, c.AuthorID).Scan(&c.Author)
	}
	return c, nil
}

func (r *commentsRepo) Get(ctx context.Context, reviewID, commentID string) (models.Comment, error) {
	var c models.Comment
	err := r.pool.QueryRow(ctx,
		`SELECT `+commentCols+`
		   FROM comments c JOIN users u ON u.id = c.author_id
		  WHERE c.id=$1 AND c.review_id=$2`,
		commentID, reviewID,
	).Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.CreatedAt)
	return c, translate(err, "comment not found")
}

func (r *commentsRepo) ListByReview(ctx context.Context, reviewID string, limit, offset int) ([]models.Comment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE review_id=$1`, reviewID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+commentCols+`
		   FROM comments c JOIN users u ON u.id = c.author_id
		  WHERE c.review_id=$1
		  ORDER BY c.created_at DESC
		  LIMIT $2 OFFSET $3`,
		reviewID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ReviewID, &c.AuthorID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *commentsRepo) Update(ctx context.Context, c models.Comment) (models.Comment, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE comments SET text=$2 WHERE id=$1`, c.ID, c.Text)
	if err != nil {
		return models.Comment{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Comment{}, translateNoRows("comment not found")
	}
	return r.Get(ctx, c.ReviewID, c.ID)
}

func (r *commentsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateNoRows("comment not found")
	}
	return nil
}
