package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/megaecommerce/backoffice/media"
	"github.com/megaecommerce/backoffice/utils"
)

// ContextStagedKey stores map[string]*media.StagedFile keyed by form field.
const ContextStagedKey = "staged_files"

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

// MediaIntake stages the files of the given form fields before the handler runs
// and releases whatever the handler left behind once it returns. Requests that
// are not multipart pass straight through.
func MediaIntake(intake *media.Intake, fields ...media.Field) gin.HandlerFunc {
	bodyCap := intake.MaxFileSize()*int64(len(fields)) + multipartMemory

	return func(ctx *gin.Context) {
		if !strings.HasPrefix(ctx.ContentType(), "multipart/") {
			ctx.Next()
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, bodyCap)
		if err := ctx.Request.ParseMultipartForm(multipartMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, media.ErrFileTooLarge.Error())
			} else {
				utils.Error(ctx, http.StatusBadRequest, 40001, "invalid multipart body")
			}
			ctx.Abort()
			return
		}
		form := ctx.Request.MultipartForm
		defer form.RemoveAll()

		staged := map[string]*media.StagedFile{}
		defer func() {
			for _, f := range staged {
				_ = f.Release()
			}
		}()

		for _, field := range fields {
			headers := form.File[field.Form]
			if len(headers) == 0 {
				continue
			}
			if len(headers) > 1 {
				utils.Error(ctx, http.StatusBadRequest, 40002, media.ErrTooManyFiles.Error()+": "+field.Form)
				ctx.Abort()
				return
			}
			f, err := intake.Stage(field.Form, headers[0])
			if err != nil {
				if errors.Is(err, media.ErrFileTooLarge) {
					utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, err.Error())
				} else {
					utils.Logger.Error("stage upload failed", zap.String("field", field.Form), zap.Error(err))
					utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to stage upload")
				}
				ctx.Abort()
				return
			}
			if f == nil {
				utils.Logger.Debug("file type rejected", zap.String("field", field.Form), zap.String("name", headers[0].Filename))
				continue
			}
			staged[field.Form] = f
		}

		ctx.Set(ContextStagedKey, staged)
		ctx.Next()
	}
}

// StagedFile returns the staged file for a form field, or nil.
func StagedFile(ctx *gin.Context, form string) *media.StagedFile {
	v, ok := ctx.Get(ContextStagedKey)
	if !ok {
		return nil
	}
	staged, _ := v.(map[string]*media.StagedFile)
	return staged[form]
}
