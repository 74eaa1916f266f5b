package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Workload  WorkloadConfig
	Timetable TimetableConfig
	Conflicts ConflictsConfig
	Reports   ReportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// WorkloadConfig holds the default load thresholds and the grade hour table.
type WorkloadConfig struct {
	UnderloadThresholdPct float64
	OverloadThresholdPct  float64
	SeverityMarginPct     float64
	DefaultMaxHours       float64
	GradeMaxHours         map[string]float64
}

// TimetableConfig governs room capacity overrides and strict range validation.
type TimetableConfig struct {
	RoomCapacities   map[string]int
	StrictTimeRanges bool
}

// ConflictsConfig controls report caching and the recompute worker.
type ConflictsConfig struct {
	CacheEnabled      bool
	CacheTTL          time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// ReportsConfig configures conflict report exports.
type ReportsConfig struct {
	Enabled  bool
	PDFTitle string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	gradeHours, err := parseFloatTable(v.GetString("GRADE_MAX_HOURS"))
	if err != nil {
		return nil, err
	}
	cfg.Workload = WorkloadConfig{
		UnderloadThresholdPct: v.GetFloat64("UNDERLOAD_THRESHOLD_PCT"),
		OverloadThresholdPct:  v.GetFloat64("OVERLOAD_THRESHOLD_PCT"),
		SeverityMarginPct:     v.GetFloat64("SEVERITY_MARGIN_PCT"),
		DefaultMaxHours:       v.GetFloat64("DEFAULT_MAX_HOURS"),
		GradeMaxHours:         gradeHours,
	}

	capacities, err := parseIntTable(v.GetString("ROOM_CAPACITIES"))
	if err != nil {
		return nil, err
	}
	cfg.Timetable = TimetableConfig{
		RoomCapacities:   capacities,
		StrictTimeRanges: v.GetBool("STRICT_TIME_RANGES"),
	}

	cfg.Conflicts = ConflictsConfig{
		CacheEnabled:      v.GetBool("CONFLICTS_CACHE_ENABLED"),
		CacheTTL:          parseDuration(v.GetString("CONFLICTS_CACHE_TTL"), 5*time.Minute),
		WorkerConcurrency: v.GetInt("CONFLICTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("CONFLICTS_WORKER_RETRIES"),
	}

	cfg.Reports = ReportsConfig{
		Enabled:  v.GetBool("ENABLE_REPORTS"),
		PDFTitle: v.GetString("REPORTS_PDF_TITLE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "univ_admin")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UNDERLOAD_THRESHOLD_PCT", 50)
	v.SetDefault("OVERLOAD_THRESHOLD_PCT", 100)
	v.SetDefault("SEVERITY_MARGIN_PCT", 20)
	v.SetDefault("DEFAULT_MAX_HOURS", 180)
	v.SetDefault("GRADE_MAX_HOURS", "")

	v.SetDefault("ROOM_CAPACITIES", "")
	v.SetDefault("STRICT_TIME_RANGES", false)

	v.SetDefault("CONFLICTS_CACHE_ENABLED", false)
	v.SetDefault("CONFLICTS_CACHE_TTL", "5m")
	v.SetDefault("CONFLICTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("CONFLICTS_WORKER_RETRIES", 2)

	v.SetDefault("ENABLE_REPORTS", true)
	v.SetDefault("REPORTS_PDF_TITLE", "Rapport des conflits")
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// parseFloatTable reads "Name=value,Other=value" pairs.
func parseFloatTable(raw string) (map[string]float64, error) {
	pairs := splitAndTrim(raw)
	if len(pairs) == 0 {
		return nil, nil
	}
	result := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.New("malformed table entry " + strconv.Quote(pair))
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.New("invalid value in table entry " + strconv.Quote(pair))
		}
		result[strings.TrimSpace(name)] = parsed
	}
	return result, nil
}

func parseIntTable(raw string) (map[string]int, error) {
	floats, err := parseFloatTable(raw)
	if err != nil || floats == nil {
		return nil, err
	}
	result := make(map[string]int, len(floats))
	for name, value := range floats {
		result[name] = int(value)
	}
	return result, nil
}
