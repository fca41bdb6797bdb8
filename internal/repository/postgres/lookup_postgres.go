package postgres

import (
	"context"
	"database/sql"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// PaymentStatePostgres is a PostgreSQL implementation of repository.PaymentStateRepository.
type PaymentStatePostgres struct {
	db *sql.DB
}

// NewPaymentStatePostgres creates a new PaymentStatePostgres repository.
func NewPaymentStatePostgres(db *sql.DB) *PaymentStatePostgres {
	return &PaymentStatePostgres{db: db}
}

var _ repository.PaymentStateRepository = (*PaymentStatePostgres)(nil)

const stateColumns = `id, nombre, descripcion, color_hex, orden`

func stateDest(s *model.PaymentState) []any {
	return []any{&s.ID, &s.Name, &s.Description, &s.ColorHex, &s.Order}
}

func (r *PaymentStatePostgres) Create(ctx context.Context, s *model.PaymentState) (*model.PaymentState, error) {
	const q = `INSERT INTO estados_pago (nombre, descripcion, color_hex, orden)
		VALUES ($1, $2, $3, $4) RETURNING ` + stateColumns
	var out model.PaymentState
	if err := r.db.QueryRowContext(ctx, q, s.Name, s.Description, s.ColorHex, s.Order).Scan(stateDest(&out)...); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

func (r *PaymentStatePostgres) Update(ctx context.Context, s *model.PaymentState) (*model.PaymentState, error) {
	const q = `UPDATE estados_pago SET nombre = $2, descripcion = $3, color_hex = $4, orden = $5
		WHERE id = $1 RETURNING ` + stateColumns
	var out model.PaymentState
	if err := r.db.QueryRowContext(ctx, q, s.ID, s.Name, s.Description, s.ColorHex, s.Order).Scan(stateDest(&out)...); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

func (r *PaymentStatePostgres) FindByID(ctx context.Context, id int64) (*model.PaymentState, error) {
	var s model.PaymentState
	if err := r.db.QueryRowContext(ctx, `SELECT `+stateColumns+` FROM estados_pago WHERE id = $1`, id).
		Scan(stateDest(&s)...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PaymentStatePostgres) List(ctx context.Context) ([]model.PaymentState, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+stateColumns+` FROM estados_pago ORDER BY orden ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PaymentState, 0)
	for rows.Next() {
		var s model.PaymentState
		if err := rows.Scan(stateDest(&s)...); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *PaymentStatePostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM estados_pago WHERE id = $1`, id)
	return execAffecting(res, err)
}

// PaymentTypePostgres is a PostgreSQL implementation of repository.PaymentTypeRepository.
type PaymentTypePostgres struct {
	db *sql.DB
}

// NewPaymentTypePostgres creates a new PaymentTypePostgres repository.
func NewPaymentTypePostgres(db *sql.DB) *PaymentTypePostgres {
	return &PaymentTypePostgres{db: db}
}

var _ repository.PaymentTypeRepository = (*PaymentTypePostgres)(nil)

const typeColumns = `id, nombre, descripcion`

func typeDest(t *model.PaymentType) []any {
	return []any{&t.ID, &t.Name, &t.Description}
}

func (r *PaymentTypePostgres) Create(ctx context.Context, t *model.PaymentType) (*model.PaymentType, error) {
	const q = `INSERT INTO tipos_pago (nombre, descripcion) VALUES ($1, $2) RETURNING ` + typeColumns
	var out model.PaymentType
	if err := r.db.QueryRowContext(ctx, q, t.Name, t.Description).Scan(typeDest(&out)...); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

func (r *PaymentTypePostgres) Update(ctx context.Context, t *model.PaymentType) (*model.PaymentType, error) {
	const q = `UPDATE tipos_pago SET nombre = $2, descripcion = $3 WHERE id = $1 RETURNING ` + typeColumns
	var out model.PaymentType
	if err := r.db.QueryRowContext(ctx, q, t.ID, t.Name, t.Description).Scan(typeDest(&out)...); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

func (r *PaymentTypePostgres) FindByID(ctx context.Context, id int64) (*model.PaymentType, error) {
	var t model.PaymentType
	if err := r.db.QueryRowContext(ctx, `SELECT `+typeColumns+` FROM tipos_pago WHERE id = $1`, id).
		Scan(typeDest(&t)...); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PaymentTypePostgres) List(ctx context.Context) ([]model.PaymentType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+typeColumns+` FROM tipos_pago ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PaymentType, 0)
	for rows.Next() {
		var t model.PaymentType
		if err := rows.Scan(typeDest(&t)...); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *PaymentTypePostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tipos_pago WHERE id = $1`, id)
	return execAffecting(res, err)
}
