package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one expected or settled rent payment for a contract period.
//
// ProofURL and ReceiptURL hold the location returned by the storage backend
// active at upload time: a relative "uploads/..." path for local disk or an
// absolute public URL for the cloud bucket. ProofKey and ReceiptKey hold the
// object key inside that backend so removal never depends on URL parsing.
type Payment struct {
	ID             int64           `json:"id"`
	ContractID     int64           `json:"contrato_id"`
	Period         time.Time       `json:"periodo"`
	PaidAt         *time.Time      `json:"fecha_pago"`
	ExpectedAmount decimal.Decimal `json:"monto_esperado"`
	PaidAmount     decimal.Decimal `json:"monto_pagado"`
	Method         *string         `json:"metodo"`
	StateID        *int64          `json:"estado_id"`
	TypeID         *int64          `json:"tipo_pago_id"`
	Notes          *string         `json:"notas"`
	ProofURL       *string         `json:"comprobante_pago"`
	ProofKey       *string         `json:"-"`
	ReceiptURL     *string         `json:"recibo_pago"`
	ReceiptKey     *string         `json:"-"`
	CreatedAt      time.Time       `json:"creado_en"`
	UpdatedAt      time.Time       `json:"actualizado_en"`

	Contract *Contract     `json:"contratos,omitempty"`
	State    *PaymentState `json:"estados_pago,omitempty"`
	Type     *PaymentType  `json:"tipos_pago,omitempty"`
}
