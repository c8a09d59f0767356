package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/dukerupert/tillcart/internal/stock"
	"github.com/dukerupert/tillcart/internal/tax"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Tax      TaxConfig
	Stock    StockConfig
	Metrics  MetricsConfig
}

// TaxConfig selects the tax calculator used for cart totals.
type TaxConfig struct {
	Enabled     bool
	RatePercent float64 `validate:"gte=0,lte=100"`
}

// StockConfig is the stock policy applied to every cart mutation.
// Remaining stock at or below WarningThreshold raises a low stock warning,
// at or below CriticalThreshold a critical one.
type StockConfig struct {
	AllowNegative     bool
	WarningThreshold  int `validate:"gte=0"`
	CriticalThreshold int `validate:"gte=0,ltefield=WarningThreshold"`
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string `validate:"required_if=Enabled true"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Tax: TaxConfig{
			Enabled:     getEnvBool("TAX_ENABLED", true),
			RatePercent: getEnvFloat("TAX_RATE_PERCENT", 16),
		},
		Stock: StockConfig{
			AllowNegative:     getEnvBool("ALLOW_NEGATIVE_STOCK", false),
			WarningThreshold:  getEnvInt("STOCK_WARNING_THRESHOLD", 10),
			CriticalThreshold: getEnvInt("STOCK_CRITICAL_THRESHOLD", 3),
		},
		Metrics: MetricsConfig{
			Enabled:   getEnvBool("METRICS_ENABLED", true),
			Namespace: getEnv("METRICS_NAMESPACE", "tillcart"),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the numeric settings. Failures are returned as a
// *domain.ValidationError keyed by field path (e.g. "Stock.CriticalThreshold").
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	var out error
	for _, fe := range verrs {
		out = domain.AddFieldError(out, fieldPath(fe), fieldMessage(fe))
	}

	var ve *domain.ValidationError
	if errors.As(out, &ve) {
		ve.Op = "config.validate"
	}
	return out
}

// StockPolicy converts the stock settings for the cart store.
func (c *Config) StockPolicy() stock.Policy {
	return stock.Policy{
		AllowNegativeStock: c.Stock.AllowNegative,
		WarningThreshold:   c.Stock.WarningThreshold,
		CriticalThreshold:  c.Stock.CriticalThreshold,
	}
}

// TaxCalculator returns the calculator configured for cart totals.
func (c *Config) TaxCalculator() tax.Calculator {
	if !c.Tax.Enabled {
		return tax.NewNoTaxCalculator()
	}
	return tax.NewPercentageCalculator(tax.RateFromPercent(c.Tax.RatePercent))
}

// fieldPath drops the leading "Config." from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := len("Config."); len(ns) > i && ns[:i] == "Config." {
		return ns[i:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "ltefield":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "required_if":
		return "is required"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intValue int
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
