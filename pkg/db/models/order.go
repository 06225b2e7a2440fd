package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderapos/caldera-backend/pkg/enums"
)

// Order is a point-of-sale ticket. The dashboard only browses orders; they
// are written by the POS terminals.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID          uuid.UUID         `gorm:"column:tenant_id;type:uuid;not null;index"`
	LocationID        uuid.UUID         `gorm:"column:location_id;type:uuid;not null;index"`
	TerminalID        *uuid.UUID        `gorm:"column:terminal_id;type:uuid"`
	Number            string            `gorm:"column:number;not null"`
	Status            enums.OrderStatus `gorm:"column:status;not null;default:'open'"`
	SubtotalCents     int               `gorm:"column:subtotal_cents;not null;default:0"`
	DiscountCents     int               `gorm:"column:discount_cents;not null;default:0"`
	TaxCents          int               `gorm:"column:tax_cents;not null;default:0"`
	TotalCents        int               `gorm:"column:total_cents;not null;default:0"`
	CustomerRef       *string           `gorm:"column:customer_ref"`
	PlacedAt          time.Time         `gorm:"column:placed_at;not null"`
	LineItems         []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments          []Payment         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem is a snapshot of a sold product at sale time.
type OrderLineItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name           string     `gorm:"column:name;not null"`
	Qty            int        `gorm:"column:qty;not null"`
	UnitPriceCents int        `gorm:"column:unit_price_cents;not null"`
	TotalCents     int        `gorm:"column:total_cents;not null"`
}

// Payment is one tender applied to an order.
type Payment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Method      enums.PaymentMethod `gorm:"column:method;not null"`
	AmountCents int                 `gorm:"column:amount_cents;not null"`
	Status      enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	Reference   *string             `gorm:"column:reference"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}
