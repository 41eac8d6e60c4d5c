package models

import "gorm.io/datatypes"

// HealthPack bundles catalog products against a health problem, with an
// optional demo video.
type HealthPack struct {
	Base
	Category          Category       `gorm:"size:32;not null;index" json:"category"`
	Problem           string         `gorm:"type:text;not null" json:"problem"`
	PackProducts      datatypes.JSON `json:"pack_products"`
	UsageInstructions string         `gorm:"type:text;not null" json:"usage_instructions"`
	VideoDemo         string         `gorm:"size:1024" json:"video_demo"`
	ProductID         *string        `gorm:"type:char(36);index" json:"product_id"`
	Product           *Product       `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`
}

// TableName pins the table name.
func (HealthPack) TableName() string { return "health_packs" }
