package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Storage backends understood by STORE_BACKEND.
const (
	BackendMemory = "memory"
	BackendPebble = "pebble"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

// Broadcast modes understood by BROADCAST.
const (
	BroadcastLocal = "local"
	BroadcastRedis = "redis"
)

// AppConfig holds file and environment driven configuration values.
type AppConfig struct {
	AppPort            string
	BindHost           string
	RateLimitPerMinute int
	AllowedOrigins     []string
	LoopbackOnly       bool
	// State storage
	StoreBackend    string
	DataDir         string
	StoreQuotaBytes int64
	Broadcast       string
	// Redis backend and change channel
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	RedisPrefix   string
	RedisChannel  string
	// MySQL backend
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
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
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}
	// Precedence: config/config.json -> defaults -> environment variable overrides
	// An unreadable file leaves defaults and environment in effect.
	cfg, _ = LoadFile(filepath.Join("config", "config.json"))
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// LoadFile builds a config from path, defaults and the environment without
// touching the cached copy. A missing file is not an error.
func LoadFile(path string) (AppConfig, error) {
	c := AppConfig{LoopbackOnly: true}
	err := loadJSONConfig(path, &c)
	applyDefaults(&c)
	applyEnvOverrides(&c)
	return c, err
}

// Addr is the listen address for the companion API.
func (c AppConfig) Addr() string {
	return c.BindHost + ":" + c.AppPort
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into cfg if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	var raw map[string]any
	dec := json.NewDecoder(f)
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			case json.Number:
				i, _ := t.Int64()
				return int(i)
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string) (bool, bool) {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b, true
			}
		}
		return false, false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]any); ok {
				res := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						res = append(res, s)
					}
				}
				return res
			}
		}
		return nil
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.BindHost = getString(app, "BindHost")
		if v := getInt(app, "RateLimitPerMinute"); v != 0 {
			out.RateLimitPerMinute = v
		}
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
		if b, ok := getBool(app, "LoopbackOnly"); ok {
			out.LoopbackOnly = b
		}
	}

	if st, ok := raw["store"].(map[string]any); ok {
		out.StoreBackend = getString(st, "Backend")
		out.DataDir = getString(st, "DataDir")
		if v := getInt(st, "QuotaBytes"); v > 0 {
			out.StoreQuotaBytes = int64(v)
		}
		out.Broadcast = getString(st, "Broadcast")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		if v := getInt(rds, "RedisPort"); v != 0 {
			out.RedisPort = v
		}
		if v := getInt(rds, "RedisDB"); v != 0 {
			out.RedisDB = v
		}
		out.RedisPassword = getString(rds, "RedisPassword")
		out.RedisPrefix = getString(rds, "Prefix")
		out.RedisChannel = getString(rds, "Channel")
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		if v := getString(g, "Mode"); v != "" {
			out.GinMode = v
		}
		if v := getString(g, "LogPath"); v != "" {
			out.GinPath = v
		}
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v := getString(lg, "Level"); v != "" {
			out.LogLevel = v
		}
		if v := getString(lg, "Path"); v != "" {
			out.LogPath = v
		}
		if v := getInt(lg, "MaxSizeMB"); v != 0 {
			out.LogMaxSizeMB = v
		}
		if v := getInt(lg, "MaxBackups"); v != 0 {
			out.LogMaxBackups = v
		}
		if v := getInt(lg, "MaxAgeDays"); v != 0 {
			out.LogMaxAgeDays = v
		}
		out.LogCompress, _ = getBool(lg, "Compress")
	}

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.BindHost == "" {
		c.BindHost = "127.0.0.1"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 600
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.StoreBackend == "" {
		c.StoreBackend = BackendPebble
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.StoreQuotaBytes == 0 {
		// the browser storage budget the data layout was sized for
		c.StoreQuotaBytes = 5 << 20
	}
	if c.Broadcast == "" {
		c.Broadcast = BroadcastLocal
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.RedisPrefix == "" {
		c.RedisPrefix = "fitvault:"
	}
	if c.RedisChannel == "" {
		c.RedisChannel = "fitvault:changes"
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
		c.DBName = "fitvault"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
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
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("BIND_HOST", ""); v != "" {
		c.BindHost = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimitPerMinute = n
		}
	}
	if v := getEnv("ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v := getEnv("LOOPBACK_ONLY", ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LoopbackOnly = b
		}
	}
	if v := getEnv("STORE_BACKEND", ""); v != "" {
		c.StoreBackend = strings.ToLower(v)
	}
	if v := getEnv("DATA_DIR", ""); v != "" {
		c.DataDir = v
	}
	if v := getEnv("STORE_QUOTA_BYTES", ""); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.StoreQuotaBytes = n
		}
	}
	if v := getEnv("BROADCAST", ""); v != "" {
		c.Broadcast = strings.ToLower(v)
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisPort = n
		}
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("REDIS_PREFIX", ""); v != "" {
		c.RedisPrefix = v
	}
	if v := getEnv("REDIS_CHANNEL", ""); v != "" {
		c.RedisChannel = v
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
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
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LogMaxSizeMB = n
		}
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LogMaxBackups = n
		}
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LogMaxAgeDays = n
		}
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LogCompress = b
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
