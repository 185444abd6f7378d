package riakexporter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"

	"github.com/basho-labs/riak-exporter/server"
	"github.com/basho-labs/riak-exporter/types"
)

const shutdownTimeout = 5 * time.Second

// Exporter serves Riak stats as Prometheus exposition text.
//
// Start blocks until Stop is called or serving fails.
//
// Stop drains in-flight scrapes and shuts the server down. It is safe to
// call more than once.
type Exporter struct {
	cfg        types.Config
	logger     log.Logger
	srv        *server.Server
	stopCalled atomic.Bool
}

// New wires the exporter together from an immutable configuration, a
// logger and a registry for the exporter's own telemetry.
func New(cfg types.Config, logger log.Logger, registry *prometheus.Registry) (*Exporter, error) {
	srv, err := server.New(cfg, logger, registry)
	if err != nil {
		return nil, err
	}
	return &Exporter{
		cfg:    cfg,
		logger: logger,
		srv:    srv,
	}, nil
}

func (e *Exporter) Start() error {
	level.Info(e.logger).Log(
		"msg", "starting exporter",
		"address", e.cfg.ListenAddress,
		"port", e.cfg.ListenPort,
		"path", e.cfg.MetricsPath,
		"stats", e.cfg.StatsURL,
		"repl_stats", e.cfg.ReplStatsURL,
	)
	err := e.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (e *Exporter) Stop() {
	if e.stopCalled.Swap(true) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.srv.Shutdown(ctx); err != nil {
		level.Error(e.logger).Log("msg", "error shutting down exporter", "err", err)
	}
}
