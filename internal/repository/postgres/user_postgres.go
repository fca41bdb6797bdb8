package postgres

import (
	"context"
	"database/sql"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, nombre, email, password_hash, rol, creado_en`

func userDest(u *model.User) []any {
	return []any{&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt}
}

func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `INSERT INTO usuarios (nombre, email, password_hash, rol)
		VALUES ($1, $2, $3, $4) RETURNING ` + userColumns
	var out model.User
	if err := r.db.QueryRowContext(ctx, q, u.Name, u.Email, u.PasswordHash, u.Role).Scan(userDest(&out)...); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

// Update changes name and email. Password and role are not editable here.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `UPDATE usuarios SET nombre = $2, email = $3 WHERE id = $1 RETURNING ` + userColumns
	var out model.User
	if err := r.db.QueryRowContext(ctx, q, u.ID, u.Name, u.Email).Scan(userDest(&out)...); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id).
		Scan(userDest(&u)...); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM usuarios WHERE email = $1`, email).
		Scan(userDest(&u)...); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserPostgres) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM usuarios ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(userDest(&u)...); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (r *UserPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	return execAffecting(res, err)
}
