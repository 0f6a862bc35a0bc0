package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	TLSCert         string
	TLSKey          string
	TokenKey        string
	OperatorLogin   string
	OperatorHash    string
	FontRegular     string
	FontBold        string
	SiteURL         string
	StaticDir       string
	RateLimit       float64
	RateBurst       int
	ShutdownTimeout time.Duration
}

// Load reads .env files (a missing file is not an error) and then the
// environment. It reports whether a .env file was loaded.
func Load(files ...string) (Config, bool, error) {
	loaded := true
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, false, fmt.Errorf("load .env: %w", err)
		}
		loaded = false
	}
	cfg, err := FromEnv()
	return cfg, loaded, err
}

func FromEnv() (Config, error) {
	cfg := Config{
		Addr:          getenv("ADDR", ":8080"),
		TLSCert:       os.Getenv("TLS_CERT"),
		TLSKey:        os.Getenv("TLS_KEY"),
		TokenKey:      os.Getenv("TOKEN_KEY"),
		OperatorLogin: os.Getenv("OPERATOR_LOGIN"),
		OperatorHash:  os.Getenv("OPERATOR_PASSWORD_HASH"),
		FontRegular:   getenv("FONT_REGULAR", "./static/fonts/DejaVuSans.ttf"),
		FontBold:      getenv("FONT_BOLD", "./static/fonts/DejaVuSans-Bold.ttf"),
		SiteURL:       os.Getenv("SITE_URL"),
		StaticDir:     getenv("STATIC_DIR", "./static/main"),
	}

	var err error
	if cfg.RateLimit, err = strconv.ParseFloat(getenv("RATE_LIMIT", "2"), 64); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT: %w", err)
	}
	if cfg.RateBurst, err = strconv.Atoi(getenv("RATE_BURST", "5")); err != nil {
		return Config{}, fmt.Errorf("RATE_BURST: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(getenv("SHUTDOWN_TIMEOUT", "5s")); err != nil {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return Config{}, errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	if cfg.OperatorLogin != "" && cfg.TokenKey == "" {
		return Config{}, errors.New("TOKEN_KEY environment variable is not set")
	}
	return cfg, nil
}

func (c Config) TLS() bool {
	return c.TLSCert != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
