package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderapos/caldera-backend/pkg/enums"
)

// User is a back-office or POS operator account scoped to a tenant.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID     uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:users_tenant_email"`
	Email        string         `gorm:"column:email;not null;uniqueIndex:users_tenant_email"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'staff'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
