package models

import (
	"time"

	"gorm.io/datatypes"
)

// Owner runs one or more shops.
type Owner struct {
	Base
	Name         string     `gorm:"size:128;not null" json:"name"`
	Sex          string     `gorm:"size:1;not null" json:"sex"`
	Phone        string     `gorm:"size:32;not null;uniqueIndex" json:"phone"`
	Email        *string    `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password;size:255;not null" json:"-"`
	Photo        string     `gorm:"size:1024" json:"photo"`
	District     string     `gorm:"size:128" json:"district"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	Shops        []Shop     `gorm:"foreignKey:OwnerID" json:"shops,omitempty"`
}

func (Owner) TableName() string { return "owners" }

// Shop is a storefront; Type is "boutique" or "supermarche".
type Shop struct {
	Base
	Type                string        `gorm:"size:16;not null" json:"type"`
	Name                string        `gorm:"size:255;not null" json:"name"`
	Slug                string        `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	CatalogEnabled      bool          `gorm:"not null;default:false" json:"catalog_enabled"`
	OtherProductsActive bool          `gorm:"not null;default:false" json:"other_products_active"`
	OwnerID             string        `gorm:"type:char(36);not null;index" json:"owner_id"`
	IsActive            bool          `gorm:"not null;default:true;index" json:"is_active"`
	Products            []ShopProduct `gorm:"foreignKey:ShopID" json:"products,omitempty"`
}

func (Shop) TableName() string { return "shops" }

// ShopProduct is a product a shop sells outside the main catalog.
type ShopProduct struct {
	Base
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Category    string  `gorm:"size:64;not null" json:"category"`
	Photo       string  `gorm:"size:1024" json:"photo"`
	VideoDemo   string  `gorm:"size:1024" json:"video_demo"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive    bool    `gorm:"not null;default:true" json:"is_active"`
	ShopID      string  `gorm:"type:char(36);not null;index" json:"shop_id"`
}

func (ShopProduct) TableName() string { return "shop_products" }

// SecondaryAdmin is a delivery operator with a set of privileges.
type SecondaryAdmin struct {
	Base
	Name       string         `gorm:"size:128;not null" json:"name"`
	Sex        string         `gorm:"size:1;not null" json:"sex"`
	Email      string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone      string         `gorm:"size:32;not null;uniqueIndex" json:"phone"`
	Photo      string         `gorm:"size:1024" json:"photo"`
	Privileges datatypes.JSON `json:"privileges"`
	Available  bool           `gorm:"not null;default:false" json:"available"`
	Latitude   *float64       `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude  *float64       `gorm:"type:decimal(11,8)" json:"longitude"`
	IsActive   bool           `gorm:"not null;default:true" json:"is_active"`
}

func (SecondaryAdmin) TableName() string { return "secondary_admins" }
