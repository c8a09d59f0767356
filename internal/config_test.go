package internal

import (
	"testing"

	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/dukerupert/tillcart/internal/stock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "TAX_ENABLED", "TAX_RATE_PERCENT", "ALLOW_NEGATIVE_STOCK",
		"STOCK_WARNING_THRESHOLD", "STOCK_CRITICAL_THRESHOLD", "METRICS_ENABLED", "METRICS_NAMESPACE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, TaxConfig{Enabled: true, RatePercent: 16}, cfg.Tax)
	assert.Equal(t, stock.DefaultPolicy(), cfg.StockPolicy())
	assert.Equal(t, MetricsConfig{Enabled: true, Namespace: "tillcart"}, cfg.Metrics)
	assert.Equal(t, 0.16, cfg.TaxCalculator().Rate())
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TAX_ENABLED", "false")
	t.Setenv("TAX_RATE_PERCENT", "8.25")
	t.Setenv("ALLOW_NEGATIVE_STOCK", "yes")
	t.Setenv("STOCK_WARNING_THRESHOLD", "20")
	t.Setenv("STOCK_CRITICAL_THRESHOLD", "5")
	t.Setenv("METRICS_ENABLED", "0")
	t.Setenv("METRICS_NAMESPACE", "till")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8.25, cfg.Tax.RatePercent)
	assert.Zero(t, cfg.TaxCalculator().Rate(), "disabled tax uses the no-tax calculator")
	assert.Equal(t, stock.Policy{AllowNegativeStock: true, WarningThreshold: 20, CriticalThreshold: 5}, cfg.StockPolicy())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "till", cfg.Metrics.Namespace)
}

func TestNewConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("STOCK_WARNING_THRESHOLD", "lots")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.Stock.WarningThreshold)
}

func TestNewConfig_ValidationFails(t *testing.T) {
	t.Setenv("TAX_RATE_PERCENT", "120")
	t.Setenv("STOCK_WARNING_THRESHOLD", "2")
	t.Setenv("STOCK_CRITICAL_THRESHOLD", "5")

	cfg, err := NewConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)

	fields := domain.GetValidationFields(err)
	assert.Equal(t, map[string]string{
		"Tax.RatePercent":         "must be at most 100",
		"Stock.CriticalThreshold": "must not exceed WarningThreshold",
	}, fields)
	assert.Contains(t, err.Error(), "config.validate")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Env:      "dev",
			LogLevel: "info",
			Tax:      TaxConfig{Enabled: true, RatePercent: 16},
			Stock:    StockConfig{WarningThreshold: 10, CriticalThreshold: 3},
			Metrics:  MetricsConfig{Enabled: true, Namespace: "tillcart"},
		}
	}

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "negative tax rate", modify: func(c *Config) { c.Tax.RatePercent = -1 }, field: "Tax.RatePercent"},
		{name: "negative warning threshold", modify: func(c *Config) { c.Stock.WarningThreshold = -1; c.Stock.CriticalThreshold = -2 }, field: "Stock.WarningThreshold"},
		{name: "critical equal to warning", modify: func(c *Config) { c.Stock.CriticalThreshold = 10 }},
		{name: "metrics without namespace", modify: func(c *Config) { c.Metrics.Namespace = "" }, field: "Metrics.Namespace"},
		{name: "disabled metrics need no namespace", modify: func(c *Config) { c.Metrics = MetricsConfig{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, domain.GetValidationFields(err), tt.field)
		})
	}
}
