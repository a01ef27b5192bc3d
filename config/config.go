package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds application configuration loaded from environment variables and .env file.
type AppConfig struct {
	// Database config
	DBDriver      string // mysql, sqlserver or sqlite
	DBHost        string
	DBPort        int
	DBUser        string
	DBPass        string
	DBName        string
	DBSQLitePath  string
	DBAutoMigrate bool

	// Logging config
	LogLevel      string
	LogFile       string
	LogMaxSize    int // MB
	LogMaxBackups int
	LogMaxAge     int // days
	LogCompress   bool

	// File storage
	UploadDir         string   // compliance evidence and section files
	SnapshotDir       string   // incident snapshots ("fotografias")
	ReportDir         string   // generated ANCI report documents
	TempDir           string   // draft seeds written while an incident is being edited
	MaxUploadMB       int      // hard cap for compliance evidence uploads
	AllowedExtensions []string // lower-case, without dot

	// Catalog seeds (obligations, taxonomies, sections, indicators)
	SeedDir string

	// Deadline monitor
	DeadlineCheckInterval time.Duration

	// Domain events; an empty NATSURL disables publishing
	NATSURL           string
	NATSSubjectPrefix string

	Port string
}

// Cfg is the global application configuration instance.
var Cfg AppConfig

// LoadConfig loads application configuration from .env file and environment variables.
func LoadConfig() error {
	err := godotenv.Load()
	if err != nil {
		// Use standard log here since logger is not initialized yet
		log.Printf("[WARN] .env file not found or cannot be loaded: %v", err)
	} else {
		log.Printf("[INFO] .env file loaded successfully")
	}

	Cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", "sqlite"))
	Cfg.DBHost = getEnv("DB_HOST", "127.0.0.1")
	Cfg.DBUser = getEnv("DB_USER", "sa")
	Cfg.DBPass = getEnv("DB_PASS", "")
	Cfg.DBName = getEnv("DB_NAME", "AgenteDigitalDB")
	Cfg.DBPort = getEnvInt("DB_PORT", defaultPort(Cfg.DBDriver))
	Cfg.DBSQLitePath = getEnv("DB_SQLITE_PATH", "data/agentedigital.sqlite")
	Cfg.DBAutoMigrate = getEnvBool("DB_AUTO_MIGRATE", true)

	Cfg.LogLevel = getEnv("LOG_LEVEL", "INFO")
	Cfg.LogFile = getEnv("LOG_FILE", "logs/agentedigital.log")
	Cfg.LogMaxSize = getEnvInt("LOG_MAX_SIZE", 10)
	Cfg.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", 3)
	Cfg.LogMaxAge = getEnvInt("LOG_MAX_AGE", 28)
	Cfg.LogCompress = getEnvBool("LOG_COMPRESS", true)

	Cfg.UploadDir = getEnv("UPLOAD_DIR", "uploads")
	Cfg.SnapshotDir = getEnv("SNAPSHOT_DIR", "fotografias")
	Cfg.ReportDir = getEnv("REPORT_DIR", "uploads/informes_anci")
	Cfg.TempDir = getEnv("TEMP_DIR", "temp_incidentes")
	Cfg.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", 16)
	Cfg.AllowedExtensions = getEnvStringSlice("ALLOWED_EXTENSIONS", []string{
		"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx",
		"txt", "csv", "png", "jpg", "jpeg", "gif", "zip", "rar",
	})

	Cfg.SeedDir = getEnv("SEED_DIR", "seeds")
	Cfg.DeadlineCheckInterval = time.Duration(getEnvInt("DEADLINE_CHECK_INTERVAL", 300)) * time.Second // Default: 5 minutes

	Cfg.NATSURL = getEnv("NATS_URL", "")
	Cfg.NATSSubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", "agentedigital")

	Cfg.Port = getEnv("PORT", "5000")

	log.Printf("[INFO] Config loaded - DB: %s %s@%s:%d/%s, LogLevel: %s",
		Cfg.DBDriver, Cfg.DBUser, Cfg.DBHost, Cfg.DBPort, Cfg.DBName, Cfg.LogLevel)
	log.Printf("[INFO] Storage - uploads: %s, snapshots: %s, reports: %s, temp: %s",
		Cfg.UploadDir, Cfg.SnapshotDir, Cfg.ReportDir, Cfg.TempDir)

	return nil
}

func defaultPort(driver string) int {
	switch driver {
	case "mysql":
		return 3306
	case "sqlserver":
		return 1433
	default:
		return 0
	}
}

// IsAllowedExtension reports whether ext (with or without leading dot) is in the upload allow list.
func IsAllowedExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return false
	}
	for _, allowed := range Cfg.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

// getEnvStringSlice parses comma-separated environment variable into string slice
// Format: "item1,item2,item3" -> []string{"item1", "item2", "item3"}
func getEnvStringSlice(key string, defaultVal []string) []string {
	if val := os.Getenv(key); val != "" {
		items := strings.Split(val, ",")
		result := make([]string, 0, len(items))
		for _, item := range items {
			if trimmed := strings.ToLower(strings.TrimSpace(item)); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultVal
}
