package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dukerupert/tillcart/internal/cart"
	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "dev")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("TAX_ENABLED", "true")
	t.Setenv("TAX_RATE_PERCENT", "16")
	t.Setenv("ALLOW_NEGATIVE_STOCK", "false")
	t.Setenv("STOCK_WARNING_THRESHOLD", "10")
	t.Setenv("STOCK_CRITICAL_THRESHOLD", "3")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("METRICS_NAMESPACE", "cartsim_test")
}

func TestRun_WholesaleScenario(t *testing.T) {
	setTestEnv(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-scenario", "testdata/wholesale.json"}, strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var report Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))

	assert.NotEmpty(t, report.CartID)
	assert.Equal(t, uint64(5), report.Version)

	outcomes := make([]string, 0, len(report.Steps))
	for _, s := range report.Steps {
		outcomes = append(outcomes, s.Op+":"+s.Outcome)
	}
	assert.Equal(t, []string{
		"add:added",
		"add:added",
		"add:rejected",
		"add:added",
		"context:repriced 2",
		"discount:applied",
		"update:removed",
		"remove:noop",
	}, outcomes)
	assert.Equal(t, "Insufficient stock. Available: 4", report.Steps[2].Error)

	require.Len(t, report.Items, 1)
	assert.Equal(t, LineItemReport{
		ProductID: "eth-yirg-12oz",
		Name:      "Ethiopian Yirgacheffe 12oz",
		Price:     12.6,
		Discount:  1.4,
		Quantity:  6,
		Total:     75.6,
		Tier:      "wholesale",
	}, report.Items[0])

	assert.Equal(t, domain.Totals{
		Subtotal:  75.6,
		Discount:  5,
		Tax:       11.3,
		Total:     81.9,
		ItemCount: 6,
	}, report.Totals)
}

func TestRun_ReadsStdin(t *testing.T) {
	setTestEnv(t)
	t.Setenv("TAX_ENABLED", "false")

	in := `{"catalog":[{"id":"a","name":"A","retail_price":100,"stock_quantity":10}],
		"steps":[{"op":"add","product_id":"a","quantity":2}]}`

	var stdout bytes.Buffer
	require.NoError(t, run(nil, strings.NewReader(in), &stdout, io.Discard))

	var report Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, 200.0, report.Totals.Total)
	assert.Zero(t, report.Totals.Tax)
}

func TestRun_Errors(t *testing.T) {
	setTestEnv(t)

	tests := []struct {
		name  string
		args  []string
		input string
	}{
		{name: "missing file", args: []string{"-scenario", "testdata/missing.json"}},
		{name: "unknown flag", args: []string{"-verbose"}},
		{name: "malformed json", input: `{"catalog": [`},
		{name: "unknown field", input: `{"basket": []}`},
		{name: "unknown op", input: `{"steps":[{"op":"checkout"}]}`},
		{name: "unknown product", input: `{"steps":[{"op":"add","product_id":"ghost","quantity":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, strings.NewReader(tt.input), io.Discard, io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestDecodeScenario_InvalidIsDomainError(t *testing.T) {
	_, err := DecodeScenario(strings.NewReader(`{"basket": []}`))

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Equal(t, "Invalid scenario file", domain.ErrorMessage(err))
}

func TestPlay_OptionalFields(t *testing.T) {
	sc, err := DecodeScenario(strings.NewReader(`{
		"catalog": [{"id": "a", "name": "A", "retail_price": 10, "stock_quantity": 50, "min_stock": 45}],
		"steps": [{"op": "add", "product_id": "a", "quantity": 10}]
	}`))
	require.NoError(t, err)

	assert.Nil(t, sc.Catalog[0].WholesalePrice)
	assert.False(t, sc.Catalog[0].toDomain().WholesalePrice.Valid)
	assert.True(t, sc.Catalog[0].toDomain().MinStock.Valid)

	store := cart.NewStore(cart.StoreConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	report, err := Play(sc, store)
	require.NoError(t, err)

	require.Len(t, report.Items, 1)
	assert.Equal(t, "retail", report.Items[0].Tier)
	assert.Equal(t, 100.0, report.Totals.Total)
}

func TestPlay_AddDefaultsToOneUnit(t *testing.T) {
	sc, err := DecodeScenario(strings.NewReader(`{
		"catalog": [{"id": "A", "name": "A", "retail_price": 5, "stock_quantity": 3}],
		"steps": [
			{"op": "add", "product_id": "A"},
			{"op": "add", "product_id": "A"},
			{"op": "update", "product_id": "A", "quantity": 0}
		]
	}`))
	require.NoError(t, err)
	require.Nil(t, sc.Steps[0].Quantity)
	require.NotNil(t, sc.Steps[2].Quantity)

	store := cart.NewStore(cart.StoreConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	report, err := Play(sc, store)
	require.NoError(t, err)

	assert.Equal(t, StepReport{Op: "add", ProductID: "A", Outcome: "added", Quantity: 1}, report.Steps[0])
	assert.Equal(t, StepReport{Op: "add", ProductID: "A", Outcome: "added", Quantity: 2}, report.Steps[1])
	assert.Equal(t, "removed", report.Steps[2].Outcome)
	assert.Empty(t, report.Items)
}

func TestPlay_InvalidSteps(t *testing.T) {
	tests := []struct {
		name  string
		steps string
		code  string
		field string
	}{
		{name: "add without product", steps: `[{"op":"add","quantity":1}]`, field: "steps[0].product_id"},
		{name: "remove without product", steps: `[{"op":"clear"},{"op":"remove"}]`, field: "steps[1].product_id"},
		{name: "update without quantity", steps: `[{"op":"update","product_id":"a"}]`, code: domain.EINVALID},
		{name: "unknown product", steps: `[{"op":"add","product_id":"ghost"}]`, code: domain.ENOTFOUND},
		{name: "unknown op", steps: `[{"op":"checkout"}]`, code: domain.EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := DecodeScenario(strings.NewReader(`{"steps":` + tt.steps + `}`))
			require.NoError(t, err)

			store := cart.NewStore(cart.StoreConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
			_, err = Play(sc, store)
			require.Error(t, err)

			if tt.field != "" {
				assert.Contains(t, domain.GetValidationFields(err), tt.field)
				return
			}
			assert.Equal(t, tt.code, domain.ErrorCode(err))
		})
	}
}

func TestRun_ConfigErrorsListFields(t *testing.T) {
	setTestEnv(t)
	t.Setenv("TAX_RATE_PERCENT", "150")

	var stderr bytes.Buffer
	err := run(nil, strings.NewReader(`{}`), io.Discard, &stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "Tax.RatePercent: must be at most 100")
}
