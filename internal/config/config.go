package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/graph"
	"github.com/riskibarqy/matchlens/internal/domain/squad"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                    string
	ServiceName               string
	ServiceVersion            string
	HTTPAddr                  string
	ReadTimeout               time.Duration
	WriteTimeout              time.Duration
	CORSAllowedOrigins        []string
	LogLevel                  logging.Level
	AnalyticsBaseURL          string
	AnalyticsTimeout          time.Duration
	AnalyticsRateLimitRPS     float64
	AnalyticsMaxBodyBytes     int64
	AnalyticsCircuitEnabled   bool
	AnalyticsCircuitFailures  int
	AnalyticsCircuitOpenAfter time.Duration
	AnalyticsCircuitHalfOpen  int
	SquadSource               squad.Source
	GraphMode                 graph.Mode
	PrefetchWorkers           int
	CacheTTL                  time.Duration
	PprofEnabled              bool
	PprofAddr                 string
	UptraceEnabled            bool
	UptraceDSN                string
	PyroscopeEnabled          bool
	PyroscopeServerAddress    string
	PyroscopeAppName          string
	PyroscopeAuthToken        string
	PyroscopeBasicAuthUser    string
	PyroscopeBasicAuthPass    string
	PyroscopeUploadRate       time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "75s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	analyticsBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("ANALYTICS_BASE_URL", "http://localhost:5000")), "/")
	if !strings.HasPrefix(analyticsBaseURL, "http://") && !strings.HasPrefix(analyticsBaseURL, "https://") {
		return Config{}, fmt.Errorf("ANALYTICS_BASE_URL must be an http(s) url, got %q", analyticsBaseURL)
	}
	analyticsTimeout, err := time.ParseDuration(getEnv("ANALYTICS_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ANALYTICS_TIMEOUT: %w", err)
	}
	if analyticsTimeout <= 0 {
		return Config{}, fmt.Errorf("ANALYTICS_TIMEOUT must be > 0")
	}
	rateLimitRPS, err := strconv.ParseFloat(getEnv("ANALYTICS_RATE_LIMIT_RPS", "0"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse ANALYTICS_RATE_LIMIT_RPS: %w", err)
	}
	if rateLimitRPS < 0 {
		return Config{}, fmt.Errorf("ANALYTICS_RATE_LIMIT_RPS must be >= 0")
	}
	maxBodyBytes, err := getEnvAsInt("ANALYTICS_MAX_BODY_BYTES", 16<<20)
	if err != nil {
		return Config{}, fmt.Errorf("parse ANALYTICS_MAX_BODY_BYTES: %w", err)
	}
	if maxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("ANALYTICS_MAX_BODY_BYTES must be > 0")
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("ANALYTICS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ANALYTICS_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailures, err := getEnvAsInt("ANALYTICS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ANALYTICS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuitFailures < 1 {
		return Config{}, fmt.Errorf("ANALYTICS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("ANALYTICS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ANALYTICS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if circuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("ANALYTICS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	circuitHalfOpen, err := getEnvAsInt("ANALYTICS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ANALYTICS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuitHalfOpen < 1 {
		return Config{}, fmt.Errorf("ANALYTICS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	squadSource, err := squad.ParseSource(getEnv("SQUAD_SOURCE", string(squad.SourceCategorized)))
	if err != nil {
		return Config{}, fmt.Errorf("parse SQUAD_SOURCE: %w", err)
	}
	graphMode, err := graph.ParseMode(getEnv("GRAPH_MODE", string(graph.ModeFigure)))
	if err != nil {
		return Config{}, fmt.Errorf("parse GRAPH_MODE: %w", err)
	}

	prefetchWorkers, err := getEnvAsInt("PREFETCH_WORKERS", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREFETCH_WORKERS: %w", err)
	}
	if prefetchWorkers < 0 {
		return Config{}, fmt.Errorf("PREFETCH_WORKERS must be >= 0")
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL < 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be >= 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                    appEnv,
		ServiceName:               getEnv("APP_SERVICE_NAME", "matchlens"),
		ServiceVersion:            getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                  getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:               readTimeout,
		WriteTimeout:              writeTimeout,
		CORSAllowedOrigins:        splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                  logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		AnalyticsBaseURL:          analyticsBaseURL,
		AnalyticsTimeout:          analyticsTimeout,
		AnalyticsRateLimitRPS:     rateLimitRPS,
		AnalyticsMaxBodyBytes:     int64(maxBodyBytes),
		AnalyticsCircuitEnabled:   circuitEnabled,
		AnalyticsCircuitFailures:  circuitFailures,
		AnalyticsCircuitOpenAfter: circuitOpenTimeout,
		AnalyticsCircuitHalfOpen:  circuitHalfOpen,
		SquadSource:               squadSource,
		GraphMode:                 graphMode,
		PrefetchWorkers:           prefetchWorkers,
		CacheTTL:                  cacheTTL,
		PprofEnabled:              pprofEnabled,
		PprofAddr:                 pprofAddr,
		UptraceEnabled:            uptraceEnabled,
		UptraceDSN:                uptraceDSN,
		PyroscopeEnabled:          pyroscopeEnabled,
		PyroscopeServerAddress:    pyroscopeServerAddress,
		PyroscopeAuthToken:        strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPass:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:       pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
