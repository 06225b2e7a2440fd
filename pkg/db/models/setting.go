package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderapos/caldera-backend/pkg/enums"
)

// Setting is one tenant-scoped key/value pair from the settings screens.
type Setting struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID        `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:settings_tenant_key"`
	Key       enums.SettingKey `gorm:"column:key;not null;uniqueIndex:settings_tenant_key"`
	Value     string           `gorm:"column:value;not null"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}
