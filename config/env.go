package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultAppEnv        = "local"
	defaultAppPort       = "5000"
	defaultGRPCPort      = "50051"
	defaultStoreDriver   = "mongo"
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultMongoDatabase = "glamify"
	defaultRedisAddr     = "localhost:6379"
	defaultJWTSecret     = "your-secret-key"
	defaultKafkaTopic    = "orders.placed"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json and .env once. Process environment variables
// always win over file values.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFiles("config/app.json", ".env")
	})
	return loadErr
}

// LoadFrom replaces the current values with defaults merged with the given
// files. Missing files are ignored.
func LoadFrom(configPath, envPath string) error {
	loadOnce.Do(func() {})
	return loadFiles(configPath, envPath)
}

func loadFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := mergeDotEnv(envPath, loaded); err != nil && !os.IsNotExist(err) {
		return err
	}

	mu.Lock()
	values = loaded
	mu.Unlock()
	return nil
}

// Set overrides a single key at runtime. Intended for tests and CLI flags.
func Set(key, value string) {
	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":            defaultAppEnv,
		"APP_PORT":           defaultAppPort,
		"GRPC_PORT":          defaultGRPCPort,
		"STORE_DRIVER":       defaultStoreDriver,
		"MONGODB_URI":        defaultMongoURI,
		"MONGODB_DATABASE":   defaultMongoDatabase,
		"REDIS_ADDR":         defaultRedisAddr,
		"JWT_SECRET":         defaultJWTSecret,
		"TOKEN_TTL":          "24h",
		"CACHE_TTL":          "5m",
		"DEFAULT_PAGE_SIZE":  "10",
		"MAX_PAGE_SIZE":      "100",
		"KAFKA_ORDERS_TOPIC": defaultKafkaTopic,
	}
}

func AppEnv() string   { _ = Load(); return get("APP_ENV", defaultAppEnv) }
func AppPort() string  { _ = Load(); return get("APP_PORT", defaultAppPort) }
func GRPCPort() string { _ = Load(); return get("GRPC_PORT", defaultGRPCPort) }

// IsProduction reports whether APP_ENV names a production deployment.
func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

// StoreDriver returns "mongo" or "memory".
func StoreDriver() string {
	_ = Load()
	switch d := strings.ToLower(get("STORE_DRIVER", defaultStoreDriver)); d {
	case "mongo", "memory":
		return d
	default:
		return defaultStoreDriver
	}
}

func MongoURI() string      { _ = Load(); return get("MONGODB_URI", defaultMongoURI) }
func MongoDatabase() string { _ = Load(); return get("MONGODB_DATABASE", defaultMongoDatabase) }

// CacheDriver returns "redis" or "memory". Redis falls back to memory when
// it cannot be reached at startup.
func CacheDriver() string {
	if strings.EqualFold(Get("CACHE_DRIVER", "redis"), "memory") {
		return "memory"
	}
	return "redis"
}

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }
func CacheTTL() time.Duration {
	return Duration("CACHE_TTL", 5*time.Minute)
}

func JWTSecret() string { _ = Load(); return get("JWT_SECRET", defaultJWTSecret) }
func TokenTTL() time.Duration {
	return Duration("TOKEN_TTL", 24*time.Hour)
}

func DefaultPageSize() int { return Int("DEFAULT_PAGE_SIZE", 10) }
func MaxPageSize() int     { return Int("MAX_PAGE_SIZE", 100) }

// RateLimitPerMinute is the per-client request budget. Zero disables limiting.
func RateLimitPerMinute() int { return Int("RATE_LIMIT_PER_MINUTE", 300) }

// CORSAllowedOrigins returns the configured origins, "*" when unset.
func CORSAllowedOrigins() []string {
	return List("CORS_ALLOWED_ORIGINS", []string{"*"})
}

func KafkaBrokers() []string { return List("KAFKA_BROKERS", nil) }
func KafkaOrdersTopic() string {
	_ = Load()
	return get("KAFKA_ORDERS_TOPIC", defaultKafkaTopic)
}

func OTLPEndpoint() string { _ = Load(); return get("OTEL_EXPORTER_OTLP_ENDPOINT", "") }

// LogMongoCollection names the collection that receives a copy of every log
// record. Empty disables the Mongo log sink.
func LogMongoCollection() string { _ = Load(); return get("LOG_MONGO_COLLECTION", "") }

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string   { _ = Load(); return get("STORAGE_DISK", "local") }
func StorageLocalRoot() string { _ = Load(); return get("STORAGE_LOCAL_ROOT", "storage") }
func StorageURL() string {
	_ = Load()
	return get("STORAGE_URL", "http://localhost:"+AppPort()+"/storage")
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

// ── Generic accessors ────────────────────────────────────────────────────────

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Int reads key as a base-10 integer, returning fallback when unset or invalid.
func Int(key string, fallback int) int {
	n, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

// Duration reads key with time.ParseDuration.
func Duration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(Get(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// List splits a comma-separated value, dropping blanks.
func List(key string, fallback []string) []string {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}

	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}
	return fallback
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		switch v := val.(type) {
		case string:
			out[k] = strings.TrimSpace(v)
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(v)
		}
	}
	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		out[key] = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
