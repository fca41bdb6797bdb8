package postgres

import (
	"context"
	"database/sql"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// TenantPostgres is a PostgreSQL implementation of repository.TenantRepository.
type TenantPostgres struct {
	db *sql.DB
}

// NewTenantPostgres creates a new TenantPostgres repository.
func NewTenantPostgres(db *sql.DB) *TenantPostgres {
	return &TenantPostgres{db: db}
}

var _ repository.TenantRepository = (*TenantPostgres)(nil)

const tenantColumns = `i.id, i.nombre, i.apellido, i.dni, i.telefono, i.correo, i.direccion,
	i.creado_en, i.actualizado_en`

func tenantDest(t *model.Tenant) []any {
	return []any{
		&t.ID, &t.FirstName, &t.LastName, &t.DNI, &t.Phone, &t.Email, &t.Address,
		&t.CreatedAt, &t.UpdatedAt,
	}
}

func (r *TenantPostgres) Create(ctx context.Context, t *model.Tenant) (*model.Tenant, error) {
	const q = `
		INSERT INTO inquilinos AS i (nombre, apellido, dni, telefono, correo, direccion)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + tenantColumns
	var out model.Tenant
	err := r.db.QueryRowContext(ctx, q, t.FirstName, t.LastName, t.DNI, t.Phone, t.Email, t.Address).
		Scan(tenantDest(&out)...)
	if err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

func (r *TenantPostgres) Update(ctx context.Context, t *model.Tenant) (*model.Tenant, error) {
	const q = `
		UPDATE inquilinos AS i SET
			nombre = $2, apellido = $3, dni = $4, telefono = $5, correo = $6, direccion = $7,
			actualizado_en = $8
		WHERE i.id = $1
		RETURNING ` + tenantColumns
	var out model.Tenant
	err := r.db.QueryRowContext(ctx, q, t.ID, t.FirstName, t.LastName, t.DNI, t.Phone, t.Email, t.Address, t.UpdatedAt).
		Scan(tenantDest(&out)...)
	if err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

func (r *TenantPostgres) FindByID(ctx context.Context, id int64) (*model.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM inquilinos i WHERE i.id = $1`
	var t model.Tenant
	if err := r.db.QueryRowContext(ctx, q, id).Scan(tenantDest(&t)...); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TenantPostgres) List(ctx context.Context) ([]model.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM inquilinos i ORDER BY i.id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Tenant, 0)
	for rows.Next() {
		var t model.Tenant
		if err := rows.Scan(tenantDest(&t)...); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *TenantPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inquilinos WHERE id = $1`, id)
	return execAffecting(res, err)
}
