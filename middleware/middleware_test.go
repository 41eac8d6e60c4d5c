package middleware

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megaecommerce/backoffice/media"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartRequest(t *testing.T, field, name, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestMediaIntakeStagesAndReleases(t *testing.T) {
	intake := media.NewIntake(media.IntakeConfig{Dir: t.TempDir()})
	var seen string

	r := gin.New()
	r.POST("/upload", MediaIntake(intake, media.PhotoField), func(ctx *gin.Context) {
		f := StagedFile(ctx, "photo")
		require.NotNil(t, f)
		seen = f.Path
		assert.FileExists(t, f.Path)
		ctx.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "photo", "a.png", "image/png", []byte("png")))
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotEmpty(t, seen)
	// the handler never consumed the file, so the middleware removed it
	_, err := os.Stat(seen)
	assert.True(t, os.IsNotExist(err))
}

func TestMediaIntakeTooLarge(t *testing.T) {
	intake := media.NewIntake(media.IntakeConfig{Dir: t.TempDir(), MaxFileSize: 8})
	called := false

	r := gin.New()
	r.POST("/upload", MediaIntake(intake, media.VideoDemoField), func(ctx *gin.Context) {
		called = true
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "videoDemoFile", "clip.mp4", "video/mp4", bytes.Repeat([]byte("x"), 64)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "41301")
	assert.False(t, called)
}

func TestMediaIntakeIgnoresOtherFieldsAndJSON(t *testing.T) {
	intake := media.NewIntake(media.IntakeConfig{Dir: t.TempDir()})

	r := gin.New()
	r.POST("/upload", MediaIntake(intake, media.PhotoField), func(ctx *gin.Context) {
		assert.Nil(t, StagedFile(ctx, "photo"))
		assert.Nil(t, StagedFile(ctx, "avatar"))
		ctx.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "avatar", "a.png", "image/png", []byte("png")))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(time.Hour, 2))
	r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
}
