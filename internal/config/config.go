package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	AppEnv  string
	LogFile string

	LogLevel string

	// Detection
	CascadePath  string
	YuNetSocket  string
	YuNetTimeout time.Duration

	// Default host view size used when a request does not carry one
	ViewWidth  int
	ViewHeight int

	// Overlay rendering
	MarkerEnabled  bool
	MarkerInterval time.Duration
	DrawBoxes      bool

	BodyLimitMB int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogFile:        getEnv("LOG_FILE", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CascadePath:    getEnv("CASCADE_PATH", "models/facefinder"),
		YuNetSocket:    getEnv("YUNET_SOCKET", ""),
		YuNetTimeout:   time.Duration(getEnvInt("YUNET_TIMEOUT_MS", 100)) * time.Millisecond,
		ViewWidth:      getEnvInt("VIEW_WIDTH", 1080),
		ViewHeight:     getEnvInt("VIEW_HEIGHT", 2160),
		MarkerEnabled:  getEnvBool("OVERLAY_MARKER_ENABLED", true),
		MarkerInterval: time.Duration(getEnvInt("OVERLAY_MARKER_INTERVAL_MS", 10000)) * time.Millisecond,
		DrawBoxes:      getEnvBool("OVERLAY_DRAW_BOXES", false),
		BodyLimitMB:    getEnvInt("BODY_LIMIT_MB", 20),
	}
}

func getEnv(k, d string) string {
	if val, ok := os.LookupEnv(k); ok {
		return val
	}
	return d
}

func getEnvInt(k string, d int) int {
	val, ok := os.LookupEnv(k)
	if !ok {
		return d
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return d
	}
	return n
}

func getEnvBool(k string, d bool) bool {
	val, ok := os.LookupEnv(k)
	if !ok {
		return d
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return d
	}
	return b
}
