package domain

import "time"

// User represents a customer or staff member of a tenant.
type User struct {
	ID        string
	TenantID  string
	Email     string
	Phone     string
	FirstName string
	LastName  string
	Role      UserRole
	IsGuest   bool
	CreatedAt time.Time
}
