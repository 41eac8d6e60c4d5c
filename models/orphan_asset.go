package models

import "time"

// OrphanAsset records a remote asset whose delete did not go through, so it can
// be retried or reconciled later.
type OrphanAsset struct {
	Base
	URL        string     `gorm:"size:1024;not null" json:"url"`
	Identifier string     `gorm:"size:512" json:"identifier"`
	Kind       string     `gorm:"size:16;not null" json:"kind"`
	Reason     string     `gorm:"size:32;not null;index" json:"reason"`
	LastError  string     `gorm:"type:text" json:"last_error"`
	Attempts   int        `gorm:"not null;default:1" json:"attempts"`
	NextTryAt  time.Time  `gorm:"index" json:"next_try_at"`
	ResolvedAt *time.Time `gorm:"index" json:"resolved_at"`
}

func (OrphanAsset) TableName() string { return "orphan_assets" }
