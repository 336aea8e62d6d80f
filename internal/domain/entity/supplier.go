package entity

import "time"

// Supplier proveedor de medicamentos. Solo se consulta desde este servicio.
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Active    bool
	CreatedAt time.Time
}
