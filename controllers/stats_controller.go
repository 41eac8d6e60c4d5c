package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/megaecommerce/backoffice/models"
	"github.com/megaecommerce/backoffice/utils"
)

// StatsController provides back-office dashboard figures.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// Overview is the dashboard payload.
type Overview struct {
	Products       int64   `json:"products"`
	ActiveProducts int64   `json:"active_products"`
	HealthPacks    int64   `json:"health_packs"`
	Shops          int64   `json:"shops"`
	ActiveShops    int64   `json:"active_shops"`
	Clients        int64   `json:"clients"`
	Orders         int64   `json:"orders"`
	PendingOrders  int64   `json:"pending_orders"`
	Deliveries     int64   `json:"deliveries"`
	Revenue        float64 `json:"revenue"`
	OrphanAssets   int64   `json:"orphan_assets"`
}

// GetStats returns aggregate counts, served from cache when Redis is available.
func (s *StatsController) GetStats(ctx *gin.Context) {
	const key = statsCachePrefix + "overview"
	var out Overview
	if utils.CacheGetJSON(key, &out) {
		utils.Success(ctx, out)
		return
	}

	db := s.db.WithContext(ctx.Request.Context())
	// A failing count falls back to 0 instead of failing the whole endpoint
	db.Model(&models.Product{}).Count(&out.Products)
	db.Model(&models.Product{}).Where("is_active = ?", true).Count(&out.ActiveProducts)
	db.Model(&models.HealthPack{}).Count(&out.HealthPacks)
	db.Model(&models.Shop{}).Count(&out.Shops)
	db.Model(&models.Shop{}).Where("is_active = ?", true).Count(&out.ActiveShops)
	db.Model(&models.Client{}).Where("is_deleted = ?", false).Count(&out.Clients)
	db.Model(&models.Order{}).Count(&out.Orders)
	db.Model(&models.Order{}).Where("status = ?", models.OrderPending).Count(&out.PendingOrders)
	db.Model(&models.Delivery{}).Count(&out.Deliveries)
	db.Model(&models.OrphanAsset{}).Where("resolved_at IS NULL").Count(&out.OrphanAssets)
	db.Model(&models.Order{}).
		Where("status IN ?", []string{models.OrderPaid, models.OrderDelivered}).
		Select("COALESCE(SUM(total_price),0)").
		Scan(&out.Revenue)

	utils.CacheSetJSON(key, out, 5*time.Minute)
	utils.Success(ctx, out)
}
