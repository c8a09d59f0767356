// cartsim replays a scripted till session against the cart engine and prints
// the resulting cart and totals as JSON.
//
// Usage:
//
//	cartsim -scenario session.json
//	cat session.json | cartsim
//
// Tax, stock policy and logging come from the environment (see .env.example).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/dukerupert/tillcart/internal"
	"github.com/dukerupert/tillcart/internal/cart"
	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/dukerupert/tillcart/internal/notify"
	"github.com/dukerupert/tillcart/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("cartsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("scenario", "", "scenario JSON file (default: stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		for field, msg := range domain.GetValidationFields(err) {
			fmt.Fprintf(stderr, "  %s: %s\n", field, msg)
		}
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Logs go to stderr so stdout stays valid JSON
	logger := internal.NewLogger(stderr, cfg.Env, cfg.LogLevel)

	in := stdin
	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			return fmt.Errorf("open scenario: %w", err)
		}
		defer f.Close()
		in = f
	}

	sc, err := DecodeScenario(in)
	if err != nil {
		return err
	}

	var metrics *telemetry.CartMetrics
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewCartMetrics(prometheus.NewRegistry(), cfg.Metrics.Namespace)
	}

	policy := cfg.StockPolicy()
	store := cart.NewStore(cart.StoreConfig{
		StockPolicy: &policy,
		Tax:         cfg.TaxCalculator(),
		Notifier:    notify.NewLogNotifier(logger),
		Metrics:     metrics,
		Logger:      logger,
	})

	logger.Info("Replaying scenario",
		slog.String("cart_id", store.ID().String()),
		slog.Int("products", len(sc.Catalog)),
		slog.Int("steps", len(sc.Steps)),
	)

	report, err := Play(sc, store)
	if err != nil {
		return fmt.Errorf("scenario failed: %w", err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}
