package shared

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	BaseURL      string
	RPS          int
	FetchTimeout time.Duration

	FieldWorkers   int
	CountryWorkers int
	DetailWorkers  int

	RefreshInterval time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		BaseURL:         env("REPORTS_BASE_URL", "https://www.iaeste.cz"),
		RPS:             atoi("REPORTS_RPS", 5),
		FetchTimeout:    time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 20)) * time.Second,
		FieldWorkers:    atoi("FIELD_WORKERS", 32),
		CountryWorkers:  atoi("COUNTRY_WORKERS", 4),
		DetailWorkers:   atoi("DETAIL_WORKERS", 32),
		RefreshInterval: time.Duration(atoi("REFRESH_INTERVAL_MINUTES", 720)) * time.Minute,
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
