package models

// Product is an entry of the main catalog. Photo and VideoDemo are URLs of
// remote assets and are only ever written with the result of an upload.
type Product struct {
	Base
	Name              string   `gorm:"size:255;not null" json:"name"`
	PV                float64  `gorm:"column:pv;type:decimal(10,2);not null" json:"pv"`
	PromoInstructions string   `gorm:"type:text" json:"promo_instructions"`
	PartnerPrice      float64  `gorm:"type:decimal(10,2);not null" json:"partner_price"`
	ClientPrice       float64  `gorm:"type:decimal(10,2);not null" json:"client_price"`
	PromoPrice        *float64 `gorm:"type:decimal(10,2)" json:"promo_price"`
	PromoActive       bool     `gorm:"not null;default:false" json:"promo_active"`
	Category          Category `gorm:"size:32;not null;index" json:"category"`
	Description       string   `gorm:"type:text;not null" json:"description"`
	Usage             string   `gorm:"type:text" json:"usage"`
	Photo             string   `gorm:"size:1024" json:"photo"`
	VideoDemo         string   `gorm:"size:1024" json:"video_demo"`
	IsActive          bool     `gorm:"not null;default:true;index" json:"is_active"`
}

// TableName pins the table name.
func (Product) TableName() string { return "products" }
