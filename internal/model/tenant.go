package model

import "time"

// Tenant is a person renting an apartment (inquilino).
type Tenant struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"nombre"`
	LastName  string    `json:"apellido"`
	DNI       *string   `json:"dni"`
	Phone     *string   `json:"telefono"`
	Email     *string   `json:"correo"`
	Address   *string   `json:"direccion"`
	CreatedAt time.Time `json:"creado_en"`
	UpdatedAt time.Time `json:"actualizado_en"`
}

// FullName joins first and last name the way listings display a tenant.
func (t *Tenant) FullName() string {
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}
