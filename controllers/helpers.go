package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/megaecommerce/backoffice/media"
	"github.com/megaecommerce/backoffice/middleware"
	"github.com/megaecommerce/backoffice/utils"
)

const statsCachePrefix = "cache:stats:"

// pagination reads page/limit query params with sane bounds.
func pagination(ctx *gin.Context) (page, limit int) {
	page, limit = 1, 10
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) gin.H {
	return gin.H{
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": int((total + int64(limit) - 1) / int64(limit)),
	}
}

// slots pairs each field with the record's current URL and the staged file, if any.
func slots(ctx *gin.Context, current map[media.Field]string, fields ...media.Field) []media.Slot {
	out := make([]media.Slot, 0, len(fields))
	for _, f := range fields {
		out = append(out, media.Slot{
			Field:    f,
			Current:  current[f],
			Incoming: middleware.StagedFile(ctx, f.Form),
		})
	}
	return out
}

// respondMutationError maps an orchestrator error to the response envelope.
func respondMutationError(ctx *gin.Context, err error) {
	var upErr *media.UploadError
	switch {
	case errors.As(err, &upErr):
		utils.Error(ctx, http.StatusBadGateway, 50201, "upload failed: "+upErr.Err.Error())
	case errors.Is(err, media.ErrIntakeMissing):
		utils.Error(ctx, http.StatusInternalServerError, 50011, "staged file missing, please retry the upload")
	default:
		utils.Logger.Error("record write failed", zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to save record")
	}
}

// optionalText sanitizes a free-text field when present.
func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	s := utils.SanitizeText(*v)
	return &s
}

func parseBoolQuery(ctx *gin.Context, key string) (bool, bool) {
	v := strings.TrimSpace(ctx.Query(key))
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
