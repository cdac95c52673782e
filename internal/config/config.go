package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pbarros/chessclub/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the CLI.
type Config struct {
	AppEnv         string `validate:"required,oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string `validate:"required"`
	LogLevel       logging.Level

	ChessComBaseURL    string `validate:"required,url"`
	ChessComWebBaseURL string `validate:"required,url"`
	UserAgent          string `validate:"required"`
	Timeout            time.Duration
	MaxRetries         int `validate:"min=0"`
	RequestDelay       time.Duration
	SessionCookie      string
	AuthHeaders        map[string]string

	ScanEndBuffer time.Duration
	ScanWorkers   int `validate:"min=1"`

	CacheEnabled bool
	CacheDir     string
	CacheFile    string `validate:"required"`

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

var validate = validator.New()

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	timeout, err := time.ParseDuration(getEnv("CHESSCOM_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CHESSCOM_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("CHESSCOM_TIMEOUT must be > 0")
	}

	maxRetries, err := getEnvAsInt("CHESSCOM_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CHESSCOM_MAX_RETRIES: %w", err)
	}
	if maxRetries < 0 {
		return Config{}, fmt.Errorf("CHESSCOM_MAX_RETRIES must be >= 0")
	}

	requestDelay, err := time.ParseDuration(getEnv("CHESSCOM_REQUEST_DELAY", "100ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CHESSCOM_REQUEST_DELAY: %w", err)
	}
	if requestDelay < 0 {
		return Config{}, fmt.Errorf("CHESSCOM_REQUEST_DELAY must be >= 0")
	}

	authHeaders, err := parseHeaderMap(getEnv("CHESSCOM_AUTH_HEADERS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse CHESSCOM_AUTH_HEADERS: %w", err)
	}

	scanEndBuffer, err := time.ParseDuration(getEnv("SCAN_END_BUFFER", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCAN_END_BUFFER: %w", err)
	}
	if scanEndBuffer <= 0 {
		return Config{}, fmt.Errorf("SCAN_END_BUFFER must be > 0")
	}

	scanWorkers, err := getEnvAsInt("SCAN_WORKERS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCAN_WORKERS: %w", err)
	}
	if scanWorkers < 1 {
		return Config{}, fmt.Errorf("SCAN_WORKERS must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
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
		AppEnv:                 appEnv,
		ServiceName:            getEnv("APP_SERVICE_NAME", "chessclub-cli"),
		ServiceVersion:         getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:               parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		ChessComBaseURL:        strings.TrimRight(getEnv("CHESSCOM_BASE_URL", "https://api.chess.com/pub"), "/"),
		ChessComWebBaseURL:     strings.TrimRight(getEnv("CHESSCOM_WEB_BASE_URL", "https://www.chess.com"), "/"),
		UserAgent:              strings.TrimSpace(getEnv("CHESSCOM_USER_AGENT", "chessclub-cli")),
		Timeout:                timeout,
		MaxRetries:             maxRetries,
		RequestDelay:           requestDelay,
		SessionCookie:          strings.TrimSpace(getEnv("CHESSCOM_SESSION_COOKIE", "")),
		AuthHeaders:            authHeaders,
		ScanEndBuffer:          scanEndBuffer,
		ScanWorkers:            scanWorkers,
		CacheEnabled:           cacheEnabled,
		CacheDir:               strings.TrimSpace(getEnv("CACHE_DIR", "")),
		CacheFile:              strings.TrimSpace(getEnv("CACHE_FILE", "responses.db")),
		UptraceEnabled:         uptraceEnabled,
		UptraceDSN:             uptraceDSN,
		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
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

// parseHeaderMap reads "Name:value,Name2:value2" pairs.
func parseHeaderMap(raw string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid header item %q, expected Name:value", item)
		}
		name := strings.TrimSpace(segments[0])
		if name == "" {
			return nil, fmt.Errorf("empty header name in item %q", item)
		}
		out[name] = strings.TrimSpace(segments[1])
	}
	return out, nil
}
