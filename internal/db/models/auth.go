package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the local record for an externally authenticated subject.
// Created lazily on the first claims-set operation for an unseen subject;
// the identity provider remains the source of truth for credentials.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID          string    `bun:"id,pk,type:uuid"`
	TenantID    string    `bun:"tenant_id,notnull"`
	AuthSubject string    `bun:"auth_subject,notnull"` // Provider subject id (JWT "sub")
	Email       string    `bun:"email"`
	DisplayName string    `bun:"display_name"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Role is a tenant-scoped role definition. Roles are soft-deleted: the
// active flag flips to false instead of removing the row, so historical
// grants keep a valid reference.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID        string    `bun:"id,pk,type:uuid"`
	TenantID  string    `bun:"tenant_id,notnull"`
	Name      string    `bun:"name,notnull"`
	Active    bool      `bun:"active,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// UserRole is an active grant of a role to a user. The full grant set for a
// user is replaced atomically on every claims sync.
type UserRole struct {
	bun.BaseModel `bun:"table:user_roles,alias:ur"`

	ID         string    `bun:"id,pk,type:uuid"`
	UserID     string    `bun:"user_id,notnull,type:uuid"` // FK to users(id)
	RoleID     string    `bun:"role_id,notnull,type:uuid"` // FK to roles(id)
	AssignedAt time.Time `bun:"assigned_at,notnull,default:current_timestamp"`
}
