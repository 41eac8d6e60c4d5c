package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/megaecommerce/backoffice/models"
	"github.com/megaecommerce/backoffice/utils"
)

const (
	// ContextAdminIDKey is the key used to store the authenticated admin ID in Gin context.
	ContextAdminIDKey = "admin_id"
	// ContextAdminKey stores the loaded *models.SuperAdmin.
	ContextAdminKey = "admin"
	// ContextTokenKey stores the raw bearer token, needed by logout.
	ContextTokenKey = "token"
)

// AdminRequired ensures the request carries a valid token of an active super admin.
func AdminRequired(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := bearerToken(ctx)
		if !ok {
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid or expired token")
			ctx.Abort()
			return
		}

		var admin models.SuperAdmin
		if err := db.WithContext(ctx.Request.Context()).First(&admin, "id = ?", claims.AdminID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Error(ctx, http.StatusUnauthorized, 40106, "super admin not found")
			} else {
				utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to load super admin")
			}
			ctx.Abort()
			return
		}
		if !admin.IsActive {
			utils.Error(ctx, http.StatusForbidden, 40301, "account disabled")
			ctx.Abort()
			return
		}

		ctx.Set(ContextAdminIDKey, admin.ID)
		ctx.Set(ContextAdminKey, &admin)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) (string, bool) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
		return "", false
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
		return "", false
	}
	return tokenString, true
}

// CurrentAdmin returns the admin loaded by AdminRequired.
func CurrentAdmin(ctx *gin.Context) *models.SuperAdmin {
	v, ok := ctx.Get(ContextAdminKey)
	if !ok {
		return nil
	}
	admin, _ := v.(*models.SuperAdmin)
	return admin
}
