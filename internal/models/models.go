package models

import (
	"time"
)

const (
	OrderStatusPending     = "PENDING"
	OrderStatusProcessed   = "PROCESSED"
	OrderStatusShipped     = "SHIPPED"
	OrderStatusManualCheck = "MANUAL_CHECK"
)

const (
	PaymentStatusUnpaid = "UNPAID"
	PaymentStatusPaid   = "PAID"
)

type Order struct {
	ID               uint        `gorm:"primaryKey;autoIncrement"     json:"id"`
	Status           string      `gorm:"not null;default:PENDING"     json:"status"`
	PaymentStatus    string      `gorm:"not null;default:UNPAID"      json:"payment_status"`
	TotalAmount      float64     `gorm:"not null"                     json:"total_amount"`
	ShippingAddress  string      `gorm:"not null"                     json:"shipping_address"`
	ShippingMethod   string      `gorm:"not null"                     json:"shipping_method"`
	ShippingCost     float64     `gorm:"not null"                     json:"shipping_cost"`
	PaymentReference string      `gorm:"uniqueIndex;not null"         json:"payment_reference"`
	ShippingReceipt  string      `json:"shipping_receipt"`
	DestinationCity  string      `gorm:"not null"                     json:"destination_city"`
	TotalWeight      int         `gorm:"not null"                     json:"total_weight"`
	CreatedAt        time.Time   `json:"created_at"`
	Items            []OrderItem `gorm:"constraint:OnDelete:CASCADE"  json:"items"`
}

type OrderItem struct {
	ID              uint    `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID         uint    `gorm:"index;not null"              json:"order_id"`
	ProductID       uint    `gorm:"not null"                    json:"product_id"`
	ProductName     string  `gorm:"not null"                    json:"product_name"`
	Quantity        uint    `gorm:"not null;check:quantity>0"   json:"quantity"`
	PriceAtPurchase float64 `gorm:"not null"                    json:"price_at_purchase"`
	WeightPerItem   int     `gorm:"not null"                    json:"weight_per_item"`
}
