package entity

import "time"

// AuditLog entrada del registro de auditoría (texto legible del cambio).
type AuditLog struct {
	ID         string
	Actor      string
	Action     string // SALE, SALE_REJECTED, STOCK_IN...
	EntityType string // SALE, STOCK_IN, MEDICINE
	EntityID   string
	Message    string
	CreatedAt  time.Time
}
