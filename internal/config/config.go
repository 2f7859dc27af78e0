// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultIAMURL is the public IBM Cloud IAM token endpoint.
const DefaultIAMURL = "https://iam.cloud.ibm.com/identity/token"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIKey       string
	IAMURL       string
	ScoringURL   string
	ListenAddr   string
	DBPath       string
	SecretKey    []byte // 32-byte AES-256 key; nil disables credential storage.
	HTTPTimeout  time.Duration
	HistoryLimit int
}

// Load reads an optional .env file from the working directory, then reads
// configuration from environment variables and returns a validated Config.
// Variables already set in the environment take precedence over .env values.
//
// ADVIEW_SCORING_URL is required. ADVIEW_API_KEY is optional; if absent, a key
// must be saved through the GUI before predictions can run.
// Optional variables with defaults: ADVIEW_IAM_URL (IBM Cloud IAM),
// ADVIEW_LISTEN_ADDR (127.0.0.1:8080), ADVIEW_DB_PATH (adview.db),
// ADVIEW_HTTP_TIMEOUT (30s), ADVIEW_HISTORY_LIMIT (10).
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is ignored.
func LoadFile(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	scoringURL := os.Getenv("ADVIEW_SCORING_URL")
	if scoringURL == "" {
		return nil, fmt.Errorf("ADVIEW_SCORING_URL is required")
	}

	iamURL := DefaultIAMURL
	if v, ok := os.LookupEnv("ADVIEW_IAM_URL"); ok && v != "" {
		iamURL = v
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("ADVIEW_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "adview.db"
	if v, ok := os.LookupEnv("ADVIEW_DB_PATH"); ok {
		dbPath = v
	}

	httpTimeout := 30 * time.Second
	if v, ok := os.LookupEnv("ADVIEW_HTTP_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ADVIEW_HTTP_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("ADVIEW_HTTP_TIMEOUT must be positive, got %s", parsed)
		}
		httpTimeout = parsed
	}

	historyLimit := 10
	if v, ok := os.LookupEnv("ADVIEW_HISTORY_LIMIT"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("ADVIEW_HISTORY_LIMIT must be a non-negative integer, got %q", v)
		}
		historyLimit = parsed
	}

	var secretKey []byte
	if v := os.Getenv("ADVIEW_SECRET_KEY"); v != "" {
		decoded, err := hex.DecodeString(v)
		if err != nil || len(decoded) != 32 {
			return nil, fmt.Errorf("ADVIEW_SECRET_KEY must be 64 hex characters (32 bytes)")
		}
		secretKey = decoded
	}

	return &Config{
		APIKey:       os.Getenv("ADVIEW_API_KEY"),
		IAMURL:       iamURL,
		ScoringURL:   scoringURL,
		ListenAddr:   listenAddr,
		DBPath:       dbPath,
		SecretKey:    secretKey,
		HTTPTimeout:  httpTimeout,
		HistoryLimit: historyLimit,
	}, nil
}
