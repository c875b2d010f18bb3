package main

import (
	"log"

	"github.com/joestump/rwdb/internal/config"
	"github.com/joestump/rwdb/internal/driver/sqldb"
	"github.com/joestump/rwdb/internal/metrics"
	"github.com/joestump/rwdb/internal/rwdb"
)

func loadConfig(f *rootFlags) (*config.Config, error) {
	cfg, err := config.LoadFile(f.config)
	if err != nil {
		return nil, err
	}
	if f.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newDriver(cfg *config.Config) (*sqldb.Driver, error) {
	return sqldb.New(cfg.DB.Driver, sqldb.WithSSLMode(cfg.DB.SSLMode))
}

// openClient builds a Client for cfg. Connections open lazily.
func openClient(cfg *config.Config) (*rwdb.Client, error) {
	drv, err := newDriver(cfg)
	if err != nil {
		return nil, err
	}
	opts := []rwdb.Option{rwdb.WithMetrics(metrics.Prometheus{})}
	if cfg.Verbose {
		opts = append(opts, rwdb.WithLogf(log.Printf))
	}
	return rwdb.New(drv, cfg.Servers, opts...)
}
