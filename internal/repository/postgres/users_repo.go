package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oyilmaz/ratehub/internal/models"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userCols = `id, username, email, first_name, last_name, bio, role, code_hash, code_expires_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Bio, &u.Role,
		&u.CodeHash, &u.CodeExpiresAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users(id, username, email, first_name, last_name, bio, role)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 RETURNING `+userCols,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Bio, u.Role,
	)
	out, err := scanUser(row)
	return out, translate(err, "user not found")
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
	return u, translate(err, "user not found")
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE username=$1`, username))
	return u, translate(err, "user not found")
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email))
	return u, translate(err, "user not found")
}

func (r *usersRepo) List(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+userCols+` FROM users ORDER BY username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *usersRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		    SET username=$2, email=$3, first_name=$4, last_name=$5, bio=$6, role=$7, updated_at=now()
		  WHERE id=$1
		  RETURNING `+userCols,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Bio, u.Role,
	)
	out, err := scanUser(row)
	return out, translate(err, "user not found")
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateNoRows("user not found")
	}
	return nil
}

func (r *usersRepo) SetCode(ctx context.Context, id, hash string, expiresAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET code_hash=$2, code_expires_at=$3, updated_at=now() WHERE id=$1`,
		id, hash, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateNoRows("user not found")
	}
	return nil
}

func (r *usersRepo) ClearCode(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET code_hash='', code_expires_at=NULL, updated_at=now() WHERE id=$1`, id)
	return err
}
