package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// PaymentPostgres is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentPostgres struct {
	db *sql.DB
}

// NewPaymentPostgres creates a new PaymentPostgres repository.
func NewPaymentPostgres(db *sql.DB) *PaymentPostgres {
	return &PaymentPostgres{db: db}
}

var _ repository.PaymentRepository = (*PaymentPostgres)(nil)

const paymentColumns = `p.id, p.contrato_id, p.periodo, p.fecha_pago, p.monto_esperado, p.monto_pagado,
	p.metodo, p.estado_id, p.tipo_pago_id, p.notas,
	p.comprobante_pago, p.comprobante_key, p.recibo_pago, p.recibo_key,
	p.creado_en, p.actualizado_en`

const paymentSelect = `
	SELECT ` + paymentColumns + `, ` + contractColumns + `, ` + tenantColumns + `, ` + apartmentColumns + `,
		ep.id, ep.nombre, ep.descripcion, ep.color_hex, ep.orden,
		tp.id, tp.nombre, tp.descripcion
	FROM pagos p
	JOIN contratos c ON c.id = p.contrato_id
	JOIN inquilinos i ON i.id = c.inquilino_id
	JOIN departamentos d ON d.id = c.departamento_id
	LEFT JOIN estados_pago ep ON ep.id = p.estado_id
	LEFT JOIN tipos_pago tp ON tp.id = p.tipo_pago_id`

func paymentDest(p *model.Payment) []any {
	return []any{
		&p.ID, &p.ContractID, &p.Period, &p.PaidAt, &p.ExpectedAmount, &p.PaidAmount,
		&p.Method, &p.StateID, &p.TypeID, &p.Notes,
		&p.ProofURL, &p.ProofKey, &p.ReceiptURL, &p.ReceiptKey,
		&p.CreatedAt, &p.UpdatedAt,
	}
}

// scanPaymentWithRelations scans one row produced by paymentSelect.
func scanPaymentWithRelations(s rowScanner) (*model.Payment, error) {
	var (
		p  model.Payment
		c  model.Contract
		t  model.Tenant
		a  model.Apartment
		st struct {
			id          sql.NullInt64
			name        sql.NullString
			desc, color *string
			order       sql.NullInt64
		}
		ty struct {
			id   sql.NullInt64
			name sql.NullString
			desc *string
		}
	)
	dest := paymentDest(&p)
	dest = append(dest, contractDest(&c)...)
	dest = append(dest, tenantDest(&t)...)
	dest = append(dest, apartmentDest(&a)...)
	dest = append(dest, &st.id, &st.name, &st.desc, &st.color, &st.order)
	dest = append(dest, &ty.id, &ty.name, &ty.desc)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	c.Tenant = &t
	c.Apartment = &a
	p.Contract = &c
	if st.id.Valid {
		p.State = &model.PaymentState{
			ID:          st.id.Int64,
			Name:        st.name.String,
			Description: st.desc,
			ColorHex:    st.color,
			Order:       int(st.order.Int64),
		}
	}
	if ty.id.Valid {
		p.Type = &model.PaymentType{ID: ty.id.Int64, Name: ty.name.String, Description: ty.desc}
	}
	return &p, nil
}

// Create inserts a new payment row and returns the stored record.
func (r *PaymentPostgres) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	const q = `
		INSERT INTO pagos AS p (contrato_id, periodo, fecha_pago, monto_esperado, monto_pagado,
			metodo, estado_id, tipo_pago_id, notas,
			comprobante_pago, comprobante_key, recibo_pago, recibo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + paymentColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ContractID, p.Period, p.PaidAt, p.ExpectedAmount, p.PaidAmount,
		p.Method, p.StateID, p.TypeID, p.Notes,
		p.ProofURL, p.ProofKey, p.ReceiptURL, p.ReceiptKey,
	)
	var out model.Payment
	if err := row.Scan(paymentDest(&out)...); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

// Update overwrites the mutable columns of an existing payment.
func (r *PaymentPostgres) Update(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	const q = `
		UPDATE pagos AS p SET
			contrato_id = $2, periodo = $3, fecha_pago = $4, monto_esperado = $5, monto_pagado = $6,
			metodo = $7, estado_id = $8, tipo_pago_id = $9, notas = $10,
			comprobante_pago = $11, comprobante_key = $12, recibo_pago = $13, recibo_key = $14,
			actualizado_en = $15
		WHERE p.id = $1
		RETURNING ` + paymentColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID, p.ContractID, p.Period, p.PaidAt, p.ExpectedAmount, p.PaidAmount,
		p.Method, p.StateID, p.TypeID, p.Notes,
		p.ProofURL, p.ProofKey, p.ReceiptURL, p.ReceiptKey,
		p.UpdatedAt,
	)
	var out model.Payment
	if err := row.Scan(paymentDest(&out)...); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

// FindByID fetches a single payment with its relations.
func (r *PaymentPostgres) FindByID(ctx context.Context, id int64) (*model.Payment, error) {
	row := r.db.QueryRowContext(ctx, paymentSelect+` WHERE p.id = $1`, id)
	return scanPaymentWithRelations(row)
}

// List returns payments matching f.
func (r *PaymentPostgres) List(ctx context.Context, f repository.PaymentFilter) ([]model.Payment, error) {
	where, args := paymentWhere(f)
	q := paymentSelect + where + ` ORDER BY ` + paymentOrder(f.Order)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPaymentWithRelations(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a payment by ID. It returns sql.ErrNoRows when the row does not exist.
func (r *PaymentPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM pagos WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	return execAffecting(res, err)
}

func paymentWhere(f repository.PaymentFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ContractID != 0 {
		conds = append(conds, "p.contrato_id = "+next(f.ContractID))
	}
	if len(f.StateNames) > 0 {
		ph := make([]string, len(f.StateNames))
		for i, name := range f.StateNames {
			ph[i] = next(name)
		}
		conds = append(conds, "ep.nombre IN ("+strings.Join(ph, ", ")+")")
	}
	if f.ExcludeState != "" {
		conds = append(conds, "ep.nombre IS DISTINCT FROM "+next(f.ExcludeState))
	}
	if !f.PeriodFrom.IsZero() {
		conds = append(conds, "p.periodo >= "+next(f.PeriodFrom))
	}
	if !f.PeriodTo.IsZero() {
		conds = append(conds, "p.periodo < "+next(f.PeriodTo))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func paymentOrder(o repository.PaymentOrder) string {
	switch o {
	case repository.OrderPeriodDesc:
		return "p.periodo DESC, p.id DESC"
	case repository.OrderPeriodAsc:
		return "p.periodo ASC, p.id ASC"
	default:
		return "p.id ASC"
	}
}
