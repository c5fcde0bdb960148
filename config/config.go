package config

import (
	"fmt"
	"os"
)

// Billing period selects which calendar month the sync covers.
const (
	PeriodCurrent  = "current"
	PeriodPrevious = "previous"
)

type Config struct {
	Username       string
	Password       string
	ChargerID      string // reserved, not used by the history query yet
	InstallationID string
	APIBaseURL     string
	DatabasePath   string
	BillingPeriod  string
	// FullMonthWindow extends the query window to cover the month's last
	// day. Default off: the window ends at 00:00 of the last day, matching
	// the portal exports this tool reconciles against.
	FullMonthWindow bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Username:        os.Getenv("ZAPTEC_USERNAME"),
		Password:        os.Getenv("ZAPTEC_PASSWORD"),
		ChargerID:       os.Getenv("ZAPTEC_CHARGER_ID"),
		InstallationID:  os.Getenv("ZAPTEC_INSTALLATION_ID"),
		APIBaseURL:      getEnv("ZAPTEC_API_URL", "https://api.zaptec.com"),
		DatabasePath:    getEnv("DATABASE_PATH", "./chargehistory.db"),
		BillingPeriod:   getEnv("BILLING_PERIOD", PeriodCurrent),
		FullMonthWindow: os.Getenv("WINDOW_FULL_MONTH") == "true",
	}

	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("ZAPTEC_USERNAME and ZAPTEC_PASSWORD must be set")
	}
	if cfg.InstallationID == "" {
		return nil, fmt.Errorf("ZAPTEC_INSTALLATION_ID must be set")
	}
	if cfg.BillingPeriod != PeriodCurrent && cfg.BillingPeriod != PeriodPrevious {
		return nil, fmt.Errorf("invalid BILLING_PERIOD %q (must be %q or %q)",
			cfg.BillingPeriod, PeriodCurrent, PeriodPrevious)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
