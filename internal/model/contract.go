package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// ContractActive is the only status counted as a running contract.
	ContractActive = "activo"
	// DefaultDueDay is the day of month rent falls due when a contract does not set one.
	DefaultDueDay = 5
)

// Contract binds a tenant to an apartment for a date range.
// A nil EndDate means open-ended.
type Contract struct {
	ID            int64           `json:"id"`
	ApartmentID   int64           `json:"departamento_id"`
	TenantID      int64           `json:"inquilino_id"`
	StartDate     time.Time       `json:"fecha_inicio"`
	EndDate       *time.Time      `json:"fecha_fin"`
	MonthlyAmount decimal.Decimal `json:"monto_mensual"`
	DueDay        int             `json:"dia_vencimiento"`
	Status        string          `json:"estado"`
	CreatedAt     time.Time       `json:"creado_en"`
	UpdatedAt     time.Time       `json:"actualizado_en"`

	Apartment *Apartment `json:"departamentos,omitempty"`
	Tenant    *Tenant    `json:"inquilinos,omitempty"`
}
