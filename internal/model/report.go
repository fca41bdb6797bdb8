package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralSummary totals every payment ever recorded.
type GeneralSummary struct {
	TotalExpected decimal.Decimal `json:"total_esperado"`
	TotalPaid     decimal.Decimal `json:"total_pagado"`
	Pending       decimal.Decimal `json:"pendiente"`
}

// MonthlySummary totals the payments whose period falls in one calendar month.
type MonthlySummary struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalExpected decimal.Decimal `json:"totalEsperado"`
	TotalPaid     decimal.Decimal `json:"totalPagado"`
	Difference    decimal.Decimal `json:"diferencia"`
}

// Dashboard holds the headline counters shown on the landing page.
type Dashboard struct {
	ActiveContracts int64           `json:"contratosActivos"`
	PendingPayments int64           `json:"pagosPendientes"`
	OverduePayments int64           `json:"pagosAtrasados"`
	TotalIncome     decimal.Decimal `json:"ingresosTotales"`
}

// ContractSummary counts contracts by lifecycle bucket.
type ContractSummary struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"activos"`
	Expired  int64 `json:"vencidos"`
	Expiring int64 `json:"por_vencer"`
}

// NamedRef is an id/name pair used in compact projections.
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// ContractPayments is one contract with its payments in ascending period order.
type ContractPayments struct {
	ContractID int64            `json:"contrato_id"`
	Apartment  string           `json:"nombre"`
	Tenant     string           `json:"inquilino"`
	Payments   []GroupedPayment `json:"pagos"`
}

// GroupedPayment is the compact payment projection used by ContractPayments,
// with file locations resolved to fetchable URLs.
type GroupedPayment struct {
	ID             int64           `json:"id"`
	Period         time.Time       `json:"periodo"`
	PaidAt         *time.Time      `json:"fecha_pago"`
	ExpectedAmount decimal.Decimal `json:"monto_esperado"`
	PaidAmount     decimal.Decimal `json:"monto_pagado"`
	State          *NamedRef       `json:"estados_pago"`
	Type           *NamedRef       `json:"tipos_pago"`
	ProofPath      *string         `json:"comprobante_pago"`
	ProofURL       *string         `json:"comprobante_url"`
	ReceiptPath    *string         `json:"recibo_pago"`
	ReceiptURL     *string         `json:"recibo_url"`
	Notes          *string         `json:"notas"`
}
