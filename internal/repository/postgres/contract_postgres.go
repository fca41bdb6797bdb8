package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// ContractPostgres is a PostgreSQL implementation of repository.ContractRepository.
type ContractPostgres struct {
	db *sql.DB
}

// NewContractPostgres creates a new ContractPostgres repository.
func NewContractPostgres(db *sql.DB) *ContractPostgres {
	return &ContractPostgres{db: db}
}

var _ repository.ContractRepository = (*ContractPostgres)(nil)

const contractColumns = `c.id, c.departamento_id, c.inquilino_id, c.fecha_inicio, c.fecha_fin,
	c.monto_mensual, c.dia_vencimiento, c.estado, c.creado_en, c.actualizado_en`

const contractSelect = `
	SELECT ` + contractColumns + `, ` + tenantColumns + `, ` + apartmentColumns + `
	FROM contratos c
	JOIN inquilinos i ON i.id = c.inquilino_id
	JOIN departamentos d ON d.id = c.departamento_id`

// Scope predicates. $1 is the active status, $2 today, $3 the expiring horizon.
const (
	condActive   = `c.estado = $1`
	condCurrent  = `c.estado = $1 AND (c.fecha_fin IS NULL OR c.fecha_fin >= $2::date)`
	condExpired  = `(c.fecha_fin < $2::date OR c.estado <> $1)`
	condExpiring = `c.estado = $1 AND c.fecha_fin >= $2::date AND c.fecha_fin <= $3::date`
)

func contractDest(c *model.Contract) []any {
	return []any{
		&c.ID, &c.ApartmentID, &c.TenantID, &c.StartDate, &c.EndDate,
		&c.MonthlyAmount, &c.DueDay, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	}
}

func scanContractWithRelations(s rowScanner) (*model.Contract, error) {
	var (
		c model.Contract
		t model.Tenant
		a model.Apartment
	)
	dest := contractDest(&c)
	dest = append(dest, tenantDest(&t)...)
	dest = append(dest, apartmentDest(&a)...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	c.Tenant = &t
	c.Apartment = &a
	return &c, nil
}

// Create inserts a new contract and returns the stored row.
func (r *ContractPostgres) Create(ctx context.Context, c *model.Contract) (*model.Contract, error) {
	const q = `
		INSERT INTO contratos AS c (departamento_id, inquilino_id, fecha_inicio, fecha_fin,
			monto_mensual, dia_vencimiento, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + contractColumns
	row := r.db.QueryRowContext(ctx, q,
		c.ApartmentID, c.TenantID, c.StartDate, c.EndDate,
		c.MonthlyAmount, c.DueDay, c.Status,
	)
	var out model.Contract
	if err := row.Scan(contractDest(&out)...); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

// Update overwrites the mutable columns of an existing contract.
func (r *ContractPostgres) Update(ctx context.Context, c *model.Contract) (*model.Contract, error) {
	const q = `
		UPDATE contratos AS c SET
			departamento_id = $2, inquilino_id = $3, fecha_inicio = $4, fecha_fin = $5,
			monto_mensual = $6, dia_vencimiento = $7, estado = $8, actualizado_en = $9
		WHERE c.id = $1
		RETURNING ` + contractColumns
	row := r.db.QueryRowContext(ctx, q,
		c.ID, c.ApartmentID, c.TenantID, c.StartDate, c.EndDate,
		c.MonthlyAmount, c.DueDay, c.Status, c.UpdatedAt,
	)
	var out model.Contract
	if err := row.Scan(contractDest(&out)...); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

// FindByID fetches a contract with its tenant and apartment.
func (r *ContractPostgres) FindByID(ctx context.Context, id int64) (*model.Contract, error) {
	row := r.db.QueryRowContext(ctx, contractSelect+` WHERE c.id = $1`, id)
	return scanContractWithRelations(row)
}

// List returns the contracts in q's scope ordered by id.
func (r *ContractPostgres) List(ctx context.Context, q repository.ContractQuery) ([]model.Contract, error) {
	query := contractSelect
	var args []any
	switch q.Scope {
	case repository.ScopeActive:
		query += ` WHERE ` + condActive
		args = []any{model.ContractActive}
	case repository.ScopeCurrent:
		query += ` WHERE ` + condCurrent
		args = []any{model.ContractActive, q.Now}
	case repository.ScopeExpired:
		query += ` WHERE ` + condExpired
		args = []any{model.ContractActive, q.Now}
	case repository.ScopeExpiring:
		query += ` WHERE ` + condExpiring
		args = []any{model.ContractActive, q.Now, q.Until}
	}
	query += ` ORDER BY c.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Contract, 0)
	for rows.Next() {
		c, err := scanContractWithRelations(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a contract. Contracts that still have payments are rejected
// by the foreign key and reported as repository.ErrForeignKey.
func (r *ContractPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contratos WHERE id = $1`, id)
	return execAffecting(res, err)
}

// Summary counts contracts per lifecycle bucket.
func (r *ContractPostgres) Summary(ctx context.Context, now, until time.Time) (*model.ContractSummary, error) {
	const q = `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE ` + condCurrent + `),
			COUNT(*) FILTER (WHERE ` + condExpired + `),
			COUNT(*) FILTER (WHERE ` + condExpiring + `)
		FROM contratos c`
	var s model.ContractSummary
	if err := r.db.QueryRowContext(ctx, q, model.ContractActive, now, until).
		Scan(&s.Total, &s.Active, &s.Expired, &s.Expiring); err != nil {
		return nil, err
	}
	return &s, nil
}
