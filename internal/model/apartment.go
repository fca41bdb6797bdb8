package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApartmentAvailable is the status given to apartments created without one.
const ApartmentAvailable = "disponible"

// Apartment is a rentable unit (departamento), optionally owned by a user.
type Apartment struct {
	ID           int64           `json:"id"`
	OwnerID      *int64          `json:"usuario_id"`
	Name         string          `json:"nombre"`
	Address      *string         `json:"direccion"`
	Description  *string         `json:"descripcion"`
	MonthlyPrice decimal.Decimal `json:"precio_mensual"`
	Status       string          `json:"estado"`
	CreatedAt    time.Time       `json:"creado_en"`

	Owner *UserSummary `json:"usuarios,omitempty"`
}
