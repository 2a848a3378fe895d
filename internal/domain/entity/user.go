package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"    // administra la whitelist y opera compras/retiros
	RoleOperator = "operator" // registra compras confirmadas y retiros
)

// User representa un operador del servicio de preventa.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Account      string // dirección 0x asociada (opcional)
	Role         string // admin, operator
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
