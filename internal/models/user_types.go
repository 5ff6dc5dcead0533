package models

import "time"

// User roles. Admin-panel callers arrive with x-admin-id/x-admin-role
// headers; suppliers and dropshippers authenticate with a bearer token.
const (
	RoleAdministrator = "administrator"
	RoleManager       = "manager"
	RoleSupplier      = "supplier"
	RoleDropshipper   = "dropshipper"
)

// User is the model for the 'users' table. Registration and credential
// management live in a separate identity service; this service only reads
// id/role/status for gating.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Role      string    `json:"role" db:"role"`
	Status    string    `json:"status" db:"status"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"fullName" db:"full_name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
