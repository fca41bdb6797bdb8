package model

// Well-known payment state names. Reports resolve states by these names.
const (
	StatePending = "pendiente"
	StatePaid    = "pagado"
	StateOverdue = "atrasado"
)

// PaymentState is a lookup row describing where a payment stands.
type PaymentState struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
	ColorHex    *string `json:"color_hex"`
	Order       int     `json:"orden"`
}

// PaymentType is a lookup row classifying payments (rent, deposit, ...).
type PaymentType struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
}
