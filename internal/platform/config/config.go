package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port    string
	GinMode string

	FirebaseProjectID string
	GoogleCredsBase64 string
	GoogleCredsFile   string

	SpreadsheetID string
	SheetName     string

	GeocodeBaseURL   string
	GeocodeUserAgent string
	GeocodeCountry   string
	GeocodeMock      bool

	ModelDir string
	// PriceDampening multiplies the raw regressor output before rounding.
	// 1.0 is the canonical pipeline; 0.63 reproduces the earlier variant.
	PriceDampening float64

	AllowedOrigins string
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "release"),
		FirebaseProjectID: strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
		GoogleCredsBase64: strings.TrimSpace(os.Getenv("GOOGLE_CREDS_BASE64")),
		GoogleCredsFile:   strings.TrimSpace(os.Getenv("GOOGLE_CREDS_FILE")),
		SpreadsheetID:     strings.TrimSpace(os.Getenv("SPREADSHEET_ID")),
		SheetName:         getEnv("SHEET_NAME", "Leads"),
		GeocodeBaseURL:    getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org/search"),
		GeocodeUserAgent:  getEnv("GEOCODE_USER_AGENT", "estimator-api"),
		GeocodeCountry:    getEnv("GEOCODE_COUNTRY", "México"),
		ModelDir:          getEnv("MODEL_DIR", "models"),
		AllowedOrigins:    strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")),
	}

	mock, err := parseBoolEnv("GEOCODE_MOCK", false)
	if err != nil {
		return Config{}, fmt.Errorf("parse GEOCODE_MOCK: %w", err)
	}
	cfg.GeocodeMock = mock

	damp, err := parseFloatEnv("PRICE_DAMPENING", 1.0)
	if err != nil {
		return Config{}, fmt.Errorf("parse PRICE_DAMPENING: %w", err)
	}
	cfg.PriceDampening = damp

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures required fields are present and sane.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.GoogleCredsBase64 == "" && c.GoogleCredsFile == "" {
		return errors.New("provide GOOGLE_CREDS_BASE64 or GOOGLE_CREDS_FILE for Google API auth")
	}
	if c.SpreadsheetID == "" {
		return errors.New("SPREADSHEET_ID is required")
	}
	if c.ModelDir == "" {
		return errors.New("MODEL_DIR is required")
	}
	if c.PriceDampening <= 0 {
		return fmt.Errorf("PRICE_DAMPENING must be positive, got %g", c.PriceDampening)
	}
	return nil
}

// GoogleCredentialsJSON returns the service account JSON bytes and the source
// used. The same service account authenticates Firestore and Sheets.
func (c Config) GoogleCredentialsJSON() ([]byte, string, error) {
	if c.GoogleCredsBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(c.GoogleCredsBase64)
		if err != nil {
			return nil, "base64", fmt.Errorf("decode GOOGLE_CREDS_BASE64: %w", err)
		}
		return decoded, "base64", nil
	}
	if c.GoogleCredsFile != "" {
		data, err := os.ReadFile(c.GoogleCredsFile)
		if err != nil {
			return nil, "file", fmt.Errorf("read GOOGLE_CREDS_FILE: %w", err)
		}
		return data, "file", nil
	}
	return nil, "", errors.New("no google credentials found")
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func parseBoolEnv(key string, defaultVal bool) (bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func parseFloatEnv(key string, defaultVal float64) (float64, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
