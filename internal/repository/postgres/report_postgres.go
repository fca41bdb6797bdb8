package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// ReportPostgres runs aggregate queries for reports.
type ReportPostgres struct {
	db *sql.DB
}

// NewReportPostgres creates a new ReportPostgres repository.
func NewReportPostgres(db *sql.DB) *ReportPostgres {
	return &ReportPostgres{db: db}
}

var _ repository.ReportRepository = (*ReportPostgres)(nil)

// SumAmounts sums expected and paid amounts with the period bounded by [from, to).
func (r *ReportPostgres) SumAmounts(ctx context.Context, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	q := `SELECT COALESCE(SUM(p.monto_esperado), 0), COALESCE(SUM(p.monto_pagado), 0) FROM pagos p`
	where, args := paymentWhere(repository.PaymentFilter{PeriodFrom: from, PeriodTo: to})

	var expected, paid decimal.Decimal
	if err := r.db.QueryRowContext(ctx, q+where, args...).Scan(&expected, &paid); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return expected, paid, nil
}

// Dashboard gathers the landing page counters in one round trip.
func (r *ReportPostgres) Dashboard(ctx context.Context, pendingState, overdueState string) (*model.Dashboard, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM contratos WHERE estado = $1),
			(SELECT COUNT(*) FROM pagos p JOIN estados_pago ep ON ep.id = p.estado_id WHERE ep.nombre = $2),
			(SELECT COUNT(*) FROM pagos p JOIN estados_pago ep ON ep.id = p.estado_id WHERE ep.nombre = $3),
			(SELECT COALESCE(SUM(monto_pagado), 0) FROM pagos)`
	var d model.Dashboard
	if err := r.db.QueryRowContext(ctx, q, model.ContractActive, pendingState, overdueState).
		Scan(&d.ActiveContracts, &d.PendingPayments, &d.OverduePayments, &d.TotalIncome); err != nil {
		return nil, err
	}
	return &d, nil
}
