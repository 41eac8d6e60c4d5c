package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the UUID primary key and timestamps shared by every table.
type Base struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID and timestamps when not provided.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	return nil
}

// Category is the catalog category shared by products and health packs.
type Category string

const (
	CategoryHealthCare  Category = "soin_sante"
	CategoryCosmetics   Category = "cosmetique"
	CategorySupplement  Category = "complement_alimentaire"
	CategoryElectronics Category = "electronique"
	CategoryAppliances  Category = "electromenager"
	CategoryAgrifood    Category = "agroalimentaire"
	CategoryEveryday    Category = "usage_quotidien"
	CategoryTextile     Category = "textile"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryHealthCare, CategoryCosmetics, CategorySupplement, CategoryElectronics,
	CategoryAppliances, CategoryAgrifood, CategoryEveryday, CategoryTextile,
}

// ValidCategory reports whether s names a known category.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// All lists every model for migration.
func All() []interface{} {
	return []interface{}{
		&SuperAdmin{}, &Product{}, &HealthPack{}, &Owner{}, &Shop{}, &SecondaryAdmin{},
		&Client{}, &PointRecord{}, &Delivery{}, &Order{}, &ShopProduct{}, &OrphanAsset{},
	}
}
