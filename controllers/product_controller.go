package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/megaecommerce/backoffice/media"
	"github.com/megaecommerce/backoffice/models"
	"github.com/megaecommerce/backoffice/utils"
)

// ProductFields are the asset fields of a product, in processing order.
var ProductFields = []media.Field{media.PhotoField, media.VideoDemoField}

// ProductController manages the catalog.
type ProductController struct {
	db     *gorm.DB
	assets *media.Orchestrator
}

// NewProductController creates a new ProductController instance.
func NewProductController(db *gorm.DB, assets *media.Orchestrator) *ProductController {
	return &ProductController{db: db, assets: assets}
}

// productRequest is shared by create and update; nil means "not supplied".
type productRequest struct {
	Name              *string  `form:"name" json:"name"`
	PV                *float64 `form:"pv" json:"pv"`
	PromoInstructions *string  `form:"promo_instructions" json:"promo_instructions"`
	PartnerPrice      *float64 `form:"partner_price" json:"partner_price"`
	ClientPrice       *float64 `form:"client_price" json:"client_price"`
	PromoPrice        *float64 `form:"promo_price" json:"promo_price"`
	PromoActive       *bool    `form:"promo_active" json:"promo_active"`
	Category          *string  `form:"category" json:"category"`
	Description       *string  `form:"description" json:"description"`
	Usage             *string  `form:"usage" json:"usage"`
}

func (r *productRequest) validate(create bool) string {
	if create {
		switch {
		case r.Name == nil || strings.TrimSpace(*r.Name) == "":
			return "name is required"
		case r.PV == nil:
			return "pv is required"
		case r.PartnerPrice == nil:
			return "partner_price is required"
		case r.ClientPrice == nil:
			return "client_price is required"
		case r.Category == nil:
			return "category is required"
		case r.Description == nil || strings.TrimSpace(*r.Description) == "":
			return "description is required"
		}
	}
	for _, v := range []*float64{r.PV, r.PartnerPrice, r.ClientPrice, r.PromoPrice} {
		if v != nil && *v < 0 {
			return "prices and pv must not be negative"
		}
	}
	if r.Category != nil && !models.ValidCategory(*r.Category) {
		return "invalid category"
	}
	return ""
}

// updates returns column -> value for every supplied field.
func (r *productRequest) updates() map[string]any {
	u := map[string]any{}
	if v := optionalText(r.Name); v != nil {
		u["name"] = *v
	}
	if r.PV != nil {
		u["pv"] = *r.PV
	}
	if v := optionalText(r.PromoInstructions); v != nil {
		u["promo_instructions"] = *v
	}
	if r.PartnerPrice != nil {
		u["partner_price"] = *r.PartnerPrice
	}
	if r.ClientPrice != nil {
		u["client_price"] = *r.ClientPrice
	}
	if r.PromoPrice != nil {
		u["promo_price"] = *r.PromoPrice
	}
	if r.PromoActive != nil {
		u["promo_active"] = *r.PromoActive
	}
	if r.Category != nil {
		u["category"] = *r.Category
	}
	if v := optionalText(r.Description); v != nil {
		u["description"] = *v
	}
	if v := optionalText(r.Usage); v != nil {
		u["usage"] = *v
	}
	return u
}

// List returns a page of products filtered by category, active flag and name search.
func (p *ProductController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	q := p.db.Model(&models.Product{})
	if c := strings.TrimSpace(ctx.Query("category")); c != "" {
		q = q.Where("category = ?", c)
	}
	if active, ok := parseBoolQuery(ctx, "active"); ok {
		q = q.Where("is_active = ?", active)
	}
	if s := strings.TrimSpace(ctx.Query("search")); s != "" {
		q = q.Where("name LIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to count products")
		return
	}
	var items []models.Product
	if err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to retrieve products")
		return
	}
	utils.Success(ctx, gin.H{"items": items, "pagination": paginationMeta(page, limit, total)})
}

// Get returns a single product.
func (p *ProductController) Get(ctx *gin.Context) {
	product, ok := p.load(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, product)
}

// Create inserts a product, uploading any supplied photo and demo video first.
func (p *ProductController) Create(ctx *gin.Context) {
	var req productRequest
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	if msg := req.validate(true); msg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, msg)
		return
	}

	product := models.Product{
		Name:         utils.SanitizeText(*req.Name),
		PV:           *req.PV,
		PartnerPrice: *req.PartnerPrice,
		ClientPrice:  *req.ClientPrice,
		PromoPrice:   req.PromoPrice,
		Category:     models.Category(*req.Category),
		Description:  utils.SanitizeText(*req.Description),
		IsActive:     true,
	}
	if v := optionalText(req.PromoInstructions); v != nil {
		product.PromoInstructions = *v
	}
	if v := optionalText(req.Usage); v != nil {
		product.Usage = *v
	}
	if req.PromoActive != nil {
		product.PromoActive = *req.PromoActive
	}

	_, err := p.assets.Create(ctx.Request.Context(), slots(ctx, nil, ProductFields...), func(changes map[string]any) error {
		product.Photo, _ = changes[media.PhotoField.Column].(string)
		product.VideoDemo, _ = changes[media.VideoDemoField.Column].(string)
		return p.db.Create(&product).Error
	})
	if err != nil {
		respondMutationError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(statsCachePrefix)
	utils.Created(ctx, "product created", product)
}

// Update modifies a product. A supplied file replaces the matching asset: the
// previous remote object is deleted, the new one uploaded, and the record is
// written once with every change.
func (p *ProductController) Update(ctx *gin.Context) {
	product, ok := p.load(ctx)
	if !ok {
		return
	}
	var req productRequest
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	if msg := req.validate(false); msg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, msg)
		return
	}

	updates := req.updates()
	current := map[media.Field]string{
		media.PhotoField:     product.Photo,
		media.VideoDemoField: product.VideoDemo,
	}
	outcome, err := p.assets.Update(ctx.Request.Context(), slots(ctx, current, ProductFields...), func(changes map[string]any) error {
		for k, v := range changes {
			updates[k] = v
		}
		if len(updates) == 0 {
			return nil
		}
		return p.db.Model(product).Updates(updates).Error
	})
	if err != nil {
		respondMutationError(ctx, err)
		return
	}

	if err := p.db.First(product, "id = ?", product.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to reload product")
		return
	}
	utils.InvalidateByPrefix(statsCachePrefix)
	utils.Success(ctx, gin.H{"product": product, "debug": outcome.Deletes()})
}

// Delete removes the product's remote assets (best-effort) and then the record.
func (p *ProductController) Delete(ctx *gin.Context) {
	product, ok := p.load(ctx)
	if !ok {
		return
	}
	results := p.assets.Release(ctx.Request.Context(), []media.Asset{
		{URL: product.Photo, Kind: media.PhotoField.Kind},
		{URL: product.VideoDemo, Kind: media.VideoDemoField.Kind},
	})
	if err := p.db.Delete(product).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to delete product")
		return
	}
	utils.InvalidateByPrefix(statsCachePrefix)
	utils.Logger.Info("product deleted", zap.String("id", product.ID), zap.Int("assets", len(results)))
	utils.Respond(ctx, http.StatusOK, 0, "product deleted", gin.H{"debug": results})
}

// Toggle flips the active flag.
func (p *ProductController) Toggle(ctx *gin.Context) {
	product, ok := p.load(ctx)
	if !ok {
		return
	}
	product.IsActive = !product.IsActive
	if err := p.db.Model(product).Update("is_active", product.IsActive).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to update product")
		return
	}
	utils.InvalidateByPrefix(statsCachePrefix)
	utils.Success(ctx, product)
}

func (p *ProductController) load(ctx *gin.Context) (*models.Product, bool) {
	var product models.Product
	if err := p.db.First(&product, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "product not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load product")
		}
		return nil, false
	}
	return &product, true
}
