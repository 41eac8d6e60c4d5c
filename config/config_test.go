package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "5000", c.AppPort)
	assert.Equal(t, 168, c.JWTTTLHours)
	assert.Equal(t, 900000, c.RateLimitWindowMS)
	assert.Equal(t, 100, c.RateLimitMax)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 150, c.MediaMaxFileSizeMB)
	assert.Equal(t, "mega_ecommerce", c.MediaFolderRoot)
	assert.Equal(t, "images", c.MediaFolderSub)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("RENDER_DB_URL", "postgres://u:p@db/render")
	t.Setenv("DATABASE_URL", "#postgres://commented-out")
	t.Setenv("FRONTEND_LOCAL_URL", "http://localhost:5173/")
	t.Setenv("FRONTEND_VERCEL_URL", "https://mega.vercel.app")
	t.Setenv("RATE_LIMIT_MAX", "not-a-number")
	t.Setenv("MEDIA_MAX_FILE_SIZE_MB", "20")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.Equal(t, "postgres://u:p@db/render", c.DatabaseURL)
	assert.Equal(t, []string{"http://localhost:5173", "https://mega.vercel.app"}, c.AllowedOrigins)
	assert.Equal(t, 100, c.RateLimitMax)
	assert.Equal(t, 20, c.MediaMaxFileSizeMB)
}

func TestDialectorPostgres(t *testing.T) {
	d := Dialector(AppConfig{DatabaseURL: "postgres://u:p@db:5432/mega?connect_timeout=5"})
	pg, ok := d.(*postgres.Dialector)
	require.True(t, ok)
	assert.Equal(t, "postgres://u:p@db:5432/mega?connect_timeout=5&sslmode=require", pg.DSN)

	d = Dialector(AppConfig{DatabaseURL: "postgres://u:p@db/mega?sslmode=disable"})
	assert.Equal(t, "postgres://u:p@db/mega?sslmode=disable", d.(*postgres.Dialector).DSN)
}

func TestDialectorMySQL(t *testing.T) {
	c := AppConfig{DBUser: "root", DBPassword: "pw", DBHost: "127.0.0.1", DBPort: "3306", DBName: "mega", DBSSL: true}
	my, ok := Dialector(c).(*mysql.Dialector)
	require.True(t, ok)
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/mega?charset=utf8mb4&parseTime=True&loc=Local&tls=true", my.DSN)
}

func TestSetAppliesDefaults(t *testing.T) {
	Set(AppConfig{JWTSecret: "x"})
	c := Get()
	assert.Equal(t, "x", c.JWTSecret)
	assert.Equal(t, "5000", c.AppPort)
}
