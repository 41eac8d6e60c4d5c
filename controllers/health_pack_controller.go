package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/megaecommerce/backoffice/media"
	"github.com/megaecommerce/backoffice/models"
	"github.com/megaecommerce/backoffice/utils"
)

// HealthPackController manages health packs. A pack carries a single demo video.
type HealthPackController struct {
	db     *gorm.DB
	assets *media.Orchestrator
}

// NewHealthPackController creates a HealthPackController.
func NewHealthPackController(db *gorm.DB, assets *media.Orchestrator) *HealthPackController {
	return &HealthPackController{db: db, assets: assets}
}

type healthPackRequest struct {
	Category          *string         `form:"category" json:"category"`
	Problem           *string         `form:"problem" json:"problem"`
	UsageInstructions *string         `form:"usage_instructions" json:"usage_instructions"`
	ProductID         *string         `form:"product_id" json:"product_id"`
	PackProducts      json.RawMessage `form:"-" json:"pack_products"`
}

// bind reads the request; multipart bodies carry pack_products as a JSON string.
func (h *HealthPackController) bind(ctx *gin.Context) (*healthPackRequest, string) {
	var req healthPackRequest
	if err := ctx.ShouldBind(&req); err != nil {
		return nil, "invalid request payload"
	}
	if raw, ok := ctx.GetPostForm("pack_products"); ok && len(req.PackProducts) == 0 {
		req.PackProducts = json.RawMessage(raw)
	}
	if len(req.PackProducts) > 0 {
		var list []json.RawMessage
		if err := json.Unmarshal(req.PackProducts, &list); err != nil {
			return nil, "pack_products must be a JSON array"
		}
	}
	if req.Category != nil && !models.ValidCategory(*req.Category) {
		return nil, "invalid category"
	}
	return &req, ""
}

func (h *HealthPackController) productExists(ctx *gin.Context, id string) bool {
	var n int64
	h.db.WithContext(ctx.Request.Context()).Model(&models.Product{}).Where("id = ?", id).Count(&n)
	return n > 0
}

// List returns a page of health packs.
func (h *HealthPackController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	q := h.db.Model(&models.HealthPack{})
	if c := strings.TrimSpace(ctx.Query("category")); c != "" {
		q = q.Where("category = ?", c)
	}
	if active, ok := parseBoolQuery(ctx, "active"); ok {
		q = q.Where("is_active = ?", active)
	}
	if s := strings.TrimSpace(ctx.Query("search")); s != "" {
		q = q.Where("problem LIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to count health packs")
		return
	}
	var items []models.HealthPack
	if err := q.Preload("Product").Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to retrieve health packs")
		return
	}
	utils.Success(ctx, gin.H{"items": items, "pagination": paginationMeta(page, limit, total)})
}

// Get returns a single health pack with its linked product.
func (h *HealthPackController) Get(ctx *gin.Context) {
	pack, ok := h.load(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, pack)
}

// Create inserts a health pack, uploading the demo video when supplied.
func (h *HealthPackController) Create(ctx *gin.Context) {
	req, msg := h.bind(ctx)
	if msg == "" {
		switch {
		case req.Category == nil:
			msg = "category is required"
		case req.Problem == nil || strings.TrimSpace(*req.Problem) == "":
			msg = "problem is required"
		case req.UsageInstructions == nil || strings.TrimSpace(*req.UsageInstructions) == "":
			msg = "usage_instructions is required"
		}
	}
	if msg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40030, msg)
		return
	}
	if req.ProductID != nil && *req.ProductID != "" && !h.productExists(ctx, *req.ProductID) {
		utils.Error(ctx, http.StatusBadRequest, 40031, "linked product does not exist")
		return
	}

	pack := models.HealthPack{
		Category:          models.Category(*req.Category),
		Problem:           utils.SanitizeText(*req.Problem),
		UsageInstructions: utils.SanitizeText(*req.UsageInstructions),
		PackProducts:      datatypes.JSON(req.PackProducts),
		IsActive:          true,
	}
	if len(pack.PackProducts) == 0 {
		pack.PackProducts = datatypes.JSON("[]")
	}
	if req.ProductID != nil && *req.ProductID != "" {
		pack.ProductID = req.ProductID
	}

	_, err := h.assets.Create(ctx.Request.Context(), slots(ctx, nil, media.VideoDemoField), func(changes map[string]any) error {
		pack.VideoDemo, _ = changes[media.VideoDemoField.Column].(string)
		return h.db.Create(&pack).Error
	})
	if err != nil {
		respondMutationError(ctx, err)
		return
	}
	utils.Created(ctx, "health pack created", pack)
}

// Update modifies a health pack, replacing the demo video when a new one is supplied.
func (h *HealthPackController) Update(ctx *gin.Context) {
	pack, ok := h.load(ctx)
	if !ok {
		return
	}
	req, msg := h.bind(ctx)
	if msg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40030, msg)
		return
	}

	updates := map[string]any{}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if v := optionalText(req.Problem); v != nil {
		updates["problem"] = *v
	}
	if v := optionalText(req.UsageInstructions); v != nil {
		updates["usage_instructions"] = *v
	}
	if len(req.PackProducts) > 0 {
		updates["pack_products"] = datatypes.JSON(req.PackProducts)
	}
	if req.ProductID != nil {
		if *req.ProductID == "" {
			updates["product_id"] = nil
		} else if !h.productExists(ctx, *req.ProductID) {
			utils.Error(ctx, http.StatusBadRequest, 40031, "linked product does not exist")
			return
		} else {
			updates["product_id"] = *req.ProductID
		}
	}

	current := map[media.Field]string{media.VideoDemoField: pack.VideoDemo}
	outcome, err := h.assets.Update(ctx.Request.Context(), slots(ctx, current, media.VideoDemoField), func(changes map[string]any) error {
		for k, v := range changes {
			updates[k] = v
		}
		if len(updates) == 0 {
			return nil
		}
		return h.db.Model(&models.HealthPack{}).Where("id = ?", pack.ID).Updates(updates).Error
	})
	if err != nil {
		respondMutationError(ctx, err)
		return
	}

	fresh, ok := h.load(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"health_pack": fresh, "debug": outcome.Deletes()})
}

// Delete removes the demo video (best-effort) and then the record.
func (h *HealthPackController) Delete(ctx *gin.Context) {
	pack, ok := h.load(ctx)
	if !ok {
		return
	}
	results := h.assets.Release(ctx.Request.Context(), []media.Asset{
		{URL: pack.VideoDemo, Kind: media.VideoDemoField.Kind},
	})
	if err := h.db.Delete(&models.HealthPack{}, "id = ?", pack.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to delete health pack")
		return
	}
	utils.Respond(ctx, http.StatusOK, 0, "health pack deleted", gin.H{"debug": results})
}

// Toggle flips the active flag.
func (h *HealthPackController) Toggle(ctx *gin.Context) {
	pack, ok := h.load(ctx)
	if !ok {
		return
	}
	pack.IsActive = !pack.IsActive
	if err := h.db.Model(&models.HealthPack{}).Where("id = ?", pack.ID).Update("is_active", pack.IsActive).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to update health pack")
		return
	}
	utils.Success(ctx, pack)
}

func (h *HealthPackController) load(ctx *gin.Context) (*models.HealthPack, bool) {
	var pack models.HealthPack
	if err := h.db.Preload("Product").First(&pack, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "health pack not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to load health pack")
		}
		return nil, false
	}
	return &pack, true
}
