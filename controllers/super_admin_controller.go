package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/megaecommerce/backoffice/media"
	"github.com/megaecommerce/backoffice/middleware"
	"github.com/megaecommerce/backoffice/models"
	"github.com/megaecommerce/backoffice/utils"
)

// SuperAdminController handles super admin registration, sessions and profile.
type SuperAdminController struct {
	db     *gorm.DB
	assets *media.Orchestrator
}

// NewSuperAdminController creates a SuperAdminController.
func NewSuperAdminController(db *gorm.DB, assets *media.Orchestrator) *SuperAdminController {
	return &SuperAdminController{db: db, assets: assets}
}

// Register creates a super admin account and returns a session token.
func (a *SuperAdminController) Register(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=128"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6,max=72"`
		Phone    string `json:"phone"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var count int64
	if err := a.db.Model(&models.SuperAdmin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check email")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusConflict, 40901, "a super admin with this email already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}

	admin := models.SuperAdmin{
		Name:         utils.SanitizeText(req.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
		IsActive:     true,
		CreatedBy:    "SYSTEM",
	}
	if err := a.db.Create(&admin).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create super admin")
		return
	}

	token, err := utils.GenerateToken(admin.ID, 0)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}
	utils.Logger.Info("super admin registered", zap.String("id", admin.ID))
	utils.Created(ctx, "super admin created", gin.H{"token": token, "admin": admin})
}

// Login authenticates by email and password.
func (a *SuperAdminController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	var admin models.SuperAdmin
	err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&admin).Error
	if err != nil || !utils.CheckPassword(admin.PasswordHash, req.Password) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to load super admin")
			return
		}
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}
	if !admin.IsActive {
		utils.Error(ctx, http.StatusForbidden, 40301, "account disabled")
		return
	}

	now := time.Now()
	if err := a.db.Model(&admin).Update("last_login_at", &now).Error; err != nil {
		utils.Logger.Warn("update last login failed", zap.String("id", admin.ID), zap.Error(err))
	}
	admin.LastLoginAt = &now

	token, err := utils.GenerateToken(admin.ID, 0)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}
	utils.Success(ctx, gin.H{"token": token, "admin": admin})
}

// Logout revokes the presented token until it expires.
func (a *SuperAdminController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	claims, err := utils.ParseToken(token)
	if err == nil && claims.ExpiresAt != nil {
		utils.BlacklistToken(token, claims.ExpiresAt.Time)
	}
	utils.Respond(ctx, http.StatusOK, 0, "logged out", nil)
}

// Profile returns the authenticated admin.
func (a *SuperAdminController) Profile(ctx *gin.Context) {
	utils.Success(ctx, middleware.CurrentAdmin(ctx))
}

// UpdateProfile changes name and phone, and replaces the profile photo when one
// is uploaded.
func (a *SuperAdminController) UpdateProfile(ctx *gin.Context) {
	admin := middleware.CurrentAdmin(ctx)
	var req struct {
		Name  *string `form:"name" json:"name"`
		Phone *string `form:"phone" json:"phone"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	updates := map[string]any{}
	if v := optionalText(req.Name); v != nil && *v != "" {
		updates["name"] = *v
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}

	current := map[media.Field]string{media.PhotoField: admin.Photo}
	outcome, err := a.assets.Update(ctx.Request.Context(), slots(ctx, current, media.PhotoField), func(changes map[string]any) error {
		for k, v := range changes {
			updates[k] = v
		}
		if len(updates) == 0 {
			return nil
		}
		return a.db.Model(admin).Updates(updates).Error
	})
	if err != nil {
		respondMutationError(ctx, err)
		return
	}

	var fresh models.SuperAdmin
	if err := a.db.First(&fresh, "id = ?", admin.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to load super admin")
		return
	}
	utils.Success(ctx, gin.H{"admin": fresh, "debug": outcome.Deletes()})
}
