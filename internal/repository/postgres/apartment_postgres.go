package postgres

import (
	"context"
	"database/sql"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// ApartmentPostgres is a PostgreSQL implementation of repository.ApartmentRepository.
type ApartmentPostgres struct {
	db *sql.DB
}

// NewApartmentPostgres creates a new ApartmentPostgres repository.
func NewApartmentPostgres(db *sql.DB) *ApartmentPostgres {
	return &ApartmentPostgres{db: db}
}

var _ repository.ApartmentRepository = (*ApartmentPostgres)(nil)

const apartmentColumns = `d.id, d.usuario_id, d.nombre, d.direccion, d.descripcion,
	d.precio_mensual, d.estado, d.creado_en`

const apartmentSelect = `
	SELECT ` + apartmentColumns + `, u.id, u.nombre, u.email, u.rol
	FROM departamentos d
	LEFT JOIN usuarios u ON u.id = d.usuario_id`

func apartmentDest(a *model.Apartment) []any {
	return []any{
		&a.ID, &a.OwnerID, &a.Name, &a.Address, &a.Description,
		&a.MonthlyPrice, &a.Status, &a.CreatedAt,
	}
}

func scanApartmentWithOwner(s rowScanner) (*model.Apartment, error) {
	var (
		a                     model.Apartment
		ownerID               sql.NullInt64
		ownerName, ownerEmail sql.NullString
		ownerRole             sql.NullString
	)
	dest := append(apartmentDest(&a), &ownerID, &ownerName, &ownerEmail, &ownerRole)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if ownerID.Valid {
		a.Owner = &model.UserSummary{
			ID:    ownerID.Int64,
			Name:  ownerName.String,
			Email: ownerEmail.String,
			Role:  ownerRole.String,
		}
	}
	return &a, nil
}

func (r *ApartmentPostgres) Create(ctx context.Context, a *model.Apartment) (*model.Apartment, error) {
	const q = `
		INSERT INTO departamentos AS d (usuario_id, nombre, direccion, descripcion, precio_mensual, estado)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + apartmentColumns
	var out model.Apartment
	err := r.db.QueryRowContext(ctx, q, a.OwnerID, a.Name, a.Address, a.Description, a.MonthlyPrice, a.Status).
		Scan(apartmentDest(&out)...)
	if err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

func (r *ApartmentPostgres) Update(ctx context.Context, a *model.Apartment) (*model.Apartment, error) {
	const q = `
		UPDATE departamentos AS d SET
			usuario_id = $2, nombre = $3, direccion = $4, descripcion = $5, precio_mensual = $6, estado = $7
		WHERE d.id = $1
		RETURNING ` + apartmentColumns
	var out model.Apartment
	err := r.db.QueryRowContext(ctx, q, a.ID, a.OwnerID, a.Name, a.Address, a.Description, a.MonthlyPrice, a.Status).
		Scan(apartmentDest(&out)...)
	if err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

func (r *ApartmentPostgres) FindByID(ctx context.Context, id int64) (*model.Apartment, error) {
	return scanApartmentWithOwner(r.db.QueryRowContext(ctx, apartmentSelect+` WHERE d.id = $1`, id))
}

func (r *ApartmentPostgres) List(ctx context.Context) ([]model.Apartment, error) {
	rows, err := r.db.QueryContext(ctx, apartmentSelect+` ORDER BY d.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Apartment, 0)
	for rows.Next() {
		a, err := scanApartmentWithOwner(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

func (r *ApartmentPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM departamentos WHERE id = $1`, id)
	return execAffecting(res, err)
}
