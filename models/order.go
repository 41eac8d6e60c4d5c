package models

import (
	"time"

	"gorm.io/datatypes"
)

// Client is an end customer placing orders.
type Client struct {
	Base
	Name            string   `gorm:"size:128;not null" json:"name"`
	Sex             string   `gorm:"size:1;not null" json:"sex"`
	Phone           string   `gorm:"size:32;not null" json:"phone"`
	Receipt         string   `gorm:"size:1024" json:"receipt"`
	Latitude        *float64 `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude       *float64 `gorm:"type:decimal(11,8)" json:"longitude"`
	District        string   `gorm:"size:128" json:"district"`
	DeliveryAddress string   `gorm:"type:text" json:"delivery_address"`
	IsDeleted       bool     `gorm:"not null;default:false" json:"is_deleted"`
	Orders          []Order  `gorm:"foreignKey:ClientID" json:"orders,omitempty"`
}

func (Client) TableName() string { return "clients" }

// Order statuses.
const (
	OrderPending   = "en_attente"
	OrderConfirmed = "confirmee"
	OrderPaid      = "payee"
	OrderDelivered = "livree"
	OrderCancelled = "annulee"
)

// Order is a client purchase from a shop, either single products or a health pack.
type Order struct {
	Base
	ClientID     string         `gorm:"type:char(36);not null;index" json:"client_id"`
	ShopID       string         `gorm:"type:char(36);not null;index" json:"shop_id"`
	ServiceType  string         `gorm:"size:32;not null" json:"service_type"`
	Products     datatypes.JSON `json:"products"`
	TotalPrice   float64        `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Receipt      string         `gorm:"size:1024" json:"receipt"`
	FreeDelivery bool           `gorm:"not null;default:false" json:"free_delivery"`
	Status       string         `gorm:"size:16;not null;default:'en_attente'" json:"status"`
	Delivery     *Delivery      `gorm:"foreignKey:OrderID" json:"delivery,omitempty"`
}

func (Order) TableName() string { return "orders" }

// Delivery tracks the courier run for an order.
type Delivery struct {
	Base
	OrderID     string     `gorm:"type:char(36);not null;uniqueIndex" json:"order_id"`
	CourierID   string     `gorm:"type:char(36);not null;index" json:"courier_id"`
	Status      string     `gorm:"size:16;not null;default:'en_attente'" json:"status"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

func (Delivery) TableName() string { return "deliveries" }

// PointRecord logs the point value (PV) credited to a client on delivery.
type PointRecord struct {
	Base
	ClientID          string         `gorm:"type:char(36);not null;index" json:"client_id"`
	CourierID         string         `gorm:"type:char(36);not null;index" json:"courier_id"`
	ProductCount      int            `gorm:"not null" json:"product_count"`
	DeliveredProducts datatypes.JSON `json:"delivered_products"`
	TotalPV           float64        `gorm:"type:decimal(10,2);not null" json:"total_pv"`
}

func (PointRecord) TableName() string { return "point_records" }
