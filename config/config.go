package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// AppConfig holds environment driven configuration values.
// Secrets have no defaults in code and must come from config.json or the environment.
type AppConfig struct {
	AppPort   string
	AppEnv    string
	JWTSecret string
	// Token lifetime in hours
	JWTTTLHours int

	// Database: DatabaseURL selects Postgres, otherwise MySQL from the DB* fields
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSL       bool

	// Redis is optional; empty RedisURL keeps caches and the token blacklist in memory
	RedisURL string

	// Rate limiting on /api: RateLimitMax requests per RateLimitWindowMS
	RateLimitWindowMS int
	RateLimitMax      int
	AllowedOrigins    []string

	// Gin framework configuration
	GinMode string
	GinPath string

	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// Remote asset provider
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Media lifecycle
	MediaStagingDir       string
	MediaMaxFileSizeMB    int
	MediaFolderRoot       string
	MediaFolderSub        string
	MediaSweepMinutes     int
	MediaStagedTTLMin     int
	MediaOrphanRetries    int
	MediaOrphanBackoffMin int
}

// fileConfig mirrors the grouped layout of config/config.json.
type fileConfig struct {
	App struct {
		AppPort           string   `json:"AppPort"`
		AppEnv            string   `json:"AppEnv"`
		JWTSecret         string   `json:"JWTSecret"`
		JWTTTLHours       int      `json:"JWTTTLHours"`
		RateLimitWindowMS int      `json:"RateLimitWindowMS"`
		RateLimitMax      int      `json:"RateLimitMax"`
		AllowedOrigins    []string `json:"AllowedOrigins"`
	} `json:"app"`
	Database struct {
		DatabaseURL string `json:"DatabaseURL"`
		DBHost      string `json:"DBHost"`
		DBPort      string `json:"DBPort"`
		DBUser      string `json:"DBUser"`
		DBPassword  string `json:"DBPassword"`
		DBName      string `json:"DBName"`
		DBSSL       bool   `json:"DBSSL"`
	} `json:"database"`
	Redis struct {
		URL string `json:"URL"`
	} `json:"redis"`
	Log struct {
		Level      string `json:"Level"`
		Path       string `json:"Path"`
		GinMode    string `json:"GinMode"`
		GinPath    string `json:"GinPath"`
		MaxSizeMB  int    `json:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays"`
		Compress   bool   `json:"Compress"`
	} `json:"log"`
	Cloudinary struct {
		CloudName string `json:"CloudName"`
		APIKey    string `json:"APIKey"`
		APISecret string `json:"APISecret"`
	} `json:"cloudinary"`
	Media struct {
		StagingDir       string `json:"StagingDir"`
		MaxFileSizeMB    int    `json:"MaxFileSizeMB"`
		FolderRoot       string `json:"FolderRoot"`
		FolderSub        string `json:"FolderSub"`
		SweepMinutes     int    `json:"SweepMinutes"`
		StagedTTLMin     int    `json:"StagedTTLMinutes"`
		OrphanRetries    int    `json:"OrphanRetries"`
		OrphanBackoffMin int    `json:"OrphanBackoffMinutes"`
	} `json:"media"`
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.Mutex
)

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg
	}

	// Precedence: config/config.json -> defaults -> environment variable overrides
	var c AppConfig
	if err := loadJSONConfig(filepath.Join("config", "config.json"), &c); err != nil {
		log.Printf("config: ignoring invalid config.json: %v", err)
	}
	applyDefaults(&c)
	applyEnvOverrides(&c)

	if c.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	mu.Lock()
	ok := loaded
	c := cfg
	mu.Unlock()
	if !ok {
		return Load()
	}
	return c
}

// Set replaces the cached configuration. Defaults are applied to zero fields.
func Set(c AppConfig) {
	applyDefaults(&c)
	mu.Lock()
	cfg = c
	loaded = true
	mu.Unlock()
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads the JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var fc fileConfig
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return err
	}

	out.AppPort = fc.App.AppPort
	out.AppEnv = fc.App.AppEnv
	out.JWTSecret = fc.App.JWTSecret
	out.JWTTTLHours = fc.App.JWTTTLHours
	out.RateLimitWindowMS = fc.App.RateLimitWindowMS
	out.RateLimitMax = fc.App.RateLimitMax
	out.AllowedOrigins = fc.App.AllowedOrigins

	out.DatabaseURL = fc.Database.DatabaseURL
	out.DBHost = fc.Database.DBHost
	out.DBPort = fc.Database.DBPort
	out.DBUser = fc.Database.DBUser
	out.DBPassword = fc.Database.DBPassword
	out.DBName = fc.Database.DBName
	out.DBSSL = fc.Database.DBSSL

	out.RedisURL = fc.Redis.URL

	out.LogLevel = fc.Log.Level
	out.LogPath = fc.Log.Path
	out.GinMode = fc.Log.GinMode
	out.GinPath = fc.Log.GinPath
	out.LogMaxSizeMB = fc.Log.MaxSizeMB
	out.LogMaxBackups = fc.Log.MaxBackups
	out.LogMaxAgeDays = fc.Log.MaxAgeDays
	out.LogCompress = fc.Log.Compress

	out.CloudinaryCloudName = fc.Cloudinary.CloudName
	out.CloudinaryAPIKey = fc.Cloudinary.APIKey
	out.CloudinaryAPISecret = fc.Cloudinary.APISecret

	out.MediaStagingDir = fc.Media.StagingDir
	out.MediaMaxFileSizeMB = fc.Media.MaxFileSizeMB
	out.MediaFolderRoot = fc.Media.FolderRoot
	out.MediaFolderSub = fc.Media.FolderSub
	out.MediaSweepMinutes = fc.Media.SweepMinutes
	out.MediaStagedTTLMin = fc.Media.StagedTTLMin
	out.MediaOrphanRetries = fc.Media.OrphanRetries
	out.MediaOrphanBackoffMin = fc.Media.OrphanBackoffMin
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "5000"
	}
	if c.AppEnv == "" {
		c.AppEnv = "development"
	}
	if c.JWTTTLHours == 0 {
		c.JWTTTLHours = 7 * 24
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitWindowMS == 0 {
		c.RateLimitWindowMS = 900000
	}
	if c.RateLimitMax == 0 {
		c.RateLimitMax = 100
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "mega_ecommerce"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.MediaStagingDir == "" {
		c.MediaStagingDir = filepath.Join("uploads", "temp")
	}
	if c.MediaMaxFileSizeMB == 0 {
		c.MediaMaxFileSizeMB = 150
	}
	if c.MediaFolderRoot == "" {
		c.MediaFolderRoot = "mega_ecommerce"
	}
	if c.MediaFolderSub == "" {
		c.MediaFolderSub = "images"
	}
	if c.MediaSweepMinutes == 0 {
		c.MediaSweepMinutes = 5
	}
	if c.MediaStagedTTLMin == 0 {
		c.MediaStagedTTLMin = 60
	}
	if c.MediaOrphanRetries == 0 {
		c.MediaOrphanRetries = 5
	}
	if c.MediaOrphanBackoffMin == 0 {
		c.MediaOrphanBackoffMin = 10
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("APP_ENV", ""); v != "" {
		c.AppEnv = v
	}
	if v := getEnv("JWT_SECRET", ""); v != "" {
		c.JWTSecret = v
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	// Hosted deployments expose the Postgres URL under either name; a value
	// commented out with '#' is treated as unset.
	for _, key := range []string{"DATABASE_URL", "RENDER_DB_URL"} {
		if v := getEnv(key, ""); v != "" && !strings.HasPrefix(v, "#") {
			c.DatabaseURL = v
			break
		}
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("DB_SSL", ""); v != "" {
		c.DBSSL = v == "true" || v == "1"
	}
	if v := getEnv("REDIS_URL", ""); v != "" {
		c.RedisURL = v
	}
	if v := envInt("RATE_LIMIT_WINDOW_MS"); v > 0 {
		c.RateLimitWindowMS = v
	}
	if v := envInt("RATE_LIMIT_MAX"); v > 0 {
		c.RateLimitMax = v
	}
	// Frontend origins replace the wildcard default when any is set
	var origins []string
	for _, key := range []string{"FRONTEND_LOCAL_URL", "FRONTEND_VERCEL_URL"} {
		if v := strings.TrimRight(getEnv(key, ""), "/"); v != "" {
			origins = append(origins, v)
		}
	}
	if len(origins) > 0 {
		c.AllowedOrigins = origins
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("CLOUDINARY_CLOUD_NAME", ""); v != "" {
		c.CloudinaryCloudName = v
	}
	if v := getEnv("CLOUDINARY_API_KEY", ""); v != "" {
		c.CloudinaryAPIKey = v
	}
	if v := getEnv("CLOUDINARY_API_SECRET", ""); v != "" {
		c.CloudinaryAPISecret = v
	}
	if v := getEnv("MEDIA_STAGING_DIR", ""); v != "" {
		c.MediaStagingDir = v
	}
	if v := envInt("MEDIA_MAX_FILE_SIZE_MB"); v > 0 {
		c.MediaMaxFileSizeMB = v
	}
	if v := getEnv("MEDIA_FOLDER_ROOT", ""); v != "" {
		c.MediaFolderRoot = v
	}
	if v := getEnv("MEDIA_FOLDER_SUB", ""); v != "" {
		c.MediaFolderSub = v
	}
}

func envInt(key string) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return 0
	}
	return n
}
