package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

const (
	defaultMongoURI    = "mongodb://localhost:27017"
	defaultMongoDB     = "pentshop"
	defaultRedisAddr   = "localhost:6379"
	defaultJWTSecret   = "change-me-in-production"
	defaultAppPort     = "5000"
	defaultGRPCPort    = "50051"
	defaultAppEnv      = "local"
	defaultQueueDriver = "memory"
	defaultFailedJobs  = "failed_jobs.db"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGO_URI":      defaultMongoURI,
		"MONGO_DB":       defaultMongoDB,
		"REDIS_ADDR":     defaultRedisAddr,
		"REDIS_PASSWORD": "",
		"JWT_SECRET":     defaultJWTSecret,
		"APP_PORT":       defaultAppPort,
		"GRPC_PORT":      defaultGRPCPort,
		"APP_ENV":        defaultAppEnv,
		"QUEUE_DRIVER":   defaultQueueDriver,
	}
}

func MongoURI() string {
	_ = Load()
	return get("MONGO_URI", defaultMongoURI)
}

func MongoDB() string {
	_ = Load()
	return get("MONGO_DB", defaultMongoDB)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func GRPCPort() string {
	_ = Load()
	return get("GRPC_PORT", defaultGRPCPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

func QueueDriver() string {
	_ = Load()

	driver := strings.ToLower(get("QUEUE_DRIVER", defaultQueueDriver))
	switch driver {
	case "memory", "redis":
		return driver
	default:
		return defaultQueueDriver
	}
}

// FailedJobsDSN is the sqlite file backing the queue dead-letter table.
func FailedJobsDSN() string {
	_ = Load()
	return get("FAILED_JOBS_DSN", defaultFailedJobs)
}

// ── Payments ─────────────────────────────────────────────────────────────────

func PaystackSecretKey() string { _ = Load(); return get("PAYSTACK_SECRET_KEY", "") }
func PaystackBaseURL() string {
	_ = Load()
	return get("PAYSTACK_BASE_URL", "https://api.paystack.co")
}

// ── Mail ─────────────────────────────────────────────────────────────────────

func MailHost() string     { _ = Load(); return get("MAIL_HOST", "smtp.gmail.com") }
func MailPort() string     { _ = Load(); return get("MAIL_PORT", "587") }
func MailUsername() string { _ = Load(); return get("MAIL_USERNAME", "") }
func MailPassword() string { _ = Load(); return get("MAIL_PASSWORD", "") }
func MailFrom() string     { _ = Load(); return get("MAIL_FROM", MailUsername()) }
func MailFromName() string { _ = Load(); return get("MAIL_FROM_NAME", "Pent-Shop") }

// ── WhatsApp / SMS ───────────────────────────────────────────────────────────

func WhatsAppToken() string         { _ = Load(); return get("WHATSAPP_TOKEN", "") }
func WhatsAppPhoneNumberID() string { _ = Load(); return get("WHATSAPP_PHONE_NUMBER_ID", "") }
func SMSGatewayAccount() string     { _ = Load(); return get("SMS_GATEWAY_ACCOUNT", "") }
func SMSGatewayToken() string       { _ = Load(); return get("SMS_GATEWAY_TOKEN", "") }
func SMSGatewayFrom() string        { _ = Load(); return get("SMS_GATEWAY_FROM", "") }

// ── Admin ────────────────────────────────────────────────────────────────────

func AdminEmail() string    { _ = Load(); return get("ADMIN_EMAIL", "admin@pentshop.org") }
func AdminPassword() string { _ = Load(); return get("ADMIN_PASSWORD", "") }

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string {
	_ = Load()
	return get("STORAGE_DISK", "local")
}

func StorageLocalRoot() string {
	_ = Load()
	return get("STORAGE_LOCAL_ROOT", "uploads")
}

func StorageURL() string {
	_ = Load()
	return get("STORAGE_URL", "http://localhost:5000/uploads")
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
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
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
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

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
