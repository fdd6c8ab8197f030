package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"signalk-windy-relay/internal/relay"
)

var validate = validator.New()

// Default Signal K paths for the seven subscribed telemetry points. Each
// can be overridden via PATH_* when a vessel reports under another path.
const (
	DefaultPathPosition      = "navigation.position"
	DefaultPathWindSpeed     = "environment.wind.speedOverGround"
	DefaultPathWindDirection = "environment.wind.directionTrue"
	DefaultPathWaterTemp     = "environment.water.temperature"
	DefaultPathOutsideTemp   = "environment.outside.temperature"
	DefaultPathPressure      = "environment.outside.pressure"
	DefaultPathHumidity      = "environment.outside.humidity"
)

type AppConfig struct {
	// WindyAPIKey authorizes submissions; start aborts without it.
	WindyAPIKey string `validate:"required"`

	// SignalKURL is the websocket delta stream endpoint.
	SignalKURL string `validate:"required"`

	// SubmitInterval controls how often an observation is submitted.
	SubmitInterval time.Duration

	// StatusInterval controls how often the status line is refreshed.
	StatusInterval time.Duration

	// Station descriptor reported with every observation.
	StationID   int `validate:"required"`
	StationName string
	Provider    string
	StationURL  string

	// Paths are the subscribed telemetry paths.
	Paths relay.Paths

	HTTPTimeout time.Duration
	Port        string
	Debug       bool
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WindyAPIKey = os.Getenv("WINDY_API_KEY")
	cfg.SignalKURL = getenvDefault("SIGNALK_URL", "ws://localhost:3000/signalk/v1/stream")

	// Submit interval is given in minutes, matching the Windy station
	// guidance of one report every few minutes.
	cfg.SubmitInterval = time.Duration(getenvInt("SUBMIT_INTERVAL", 5)) * time.Minute
	cfg.StatusInterval = time.Duration(getenvInt("STATUS_INTERVAL", 5)) * time.Second

	cfg.StationID = getenvInt("STATION_ID", 100)
	cfg.StationName = getenvDefault("STATION_NAME", "Signal K vessel")
	cfg.Provider = os.Getenv("PROVIDER")
	cfg.StationURL = os.Getenv("STATION_URL")

	cfg.Paths = relay.Paths{
		Position:           getenvDefault("PATH_POSITION", DefaultPathPosition),
		WindSpeed:          getenvDefault("PATH_WIND_SPEED", DefaultPathWindSpeed),
		WindDirection:      getenvDefault("PATH_WIND_DIRECTION", DefaultPathWindDirection),
		WaterTemperature:   getenvDefault("PATH_WATER_TEMP", DefaultPathWaterTemp),
		OutsideTemperature: getenvDefault("PATH_OUTSIDE_TEMP", DefaultPathOutsideTemp),
		Pressure:           getenvDefault("PATH_PRESSURE", DefaultPathPressure),
		Humidity:           getenvDefault("PATH_HUMIDITY", DefaultPathHumidity),
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "20s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Debug = getenvDefault("DEBUG", "") != ""

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
