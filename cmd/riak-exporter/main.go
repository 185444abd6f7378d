package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"

	riakexporter "github.com/basho-labs/riak-exporter"
	"github.com/basho-labs/riak-exporter/types"
)

func main() {
	var (
		statsURL = kingpin.Flag("riak.stats-url", "URL of the Riak stats endpoint.").
				Default(types.DefaultStatsURL).String()
		replStatsURL = kingpin.Flag("riak.repl-stats-url", "URL of the Riak replication stats endpoint.").
				Default(types.DefaultReplStatsURL).String()
		fetchTimeout = kingpin.Flag("riak.timeout", "Per-fetch timeout for upstream requests.").
				Default(types.DefaultFetchTimeout.String()).Duration()
		ignoreFetchErrors = kingpin.Flag("riak.ignore-fetch-errors", "Serve whatever metrics are available instead of failing the scrape when an upstream fetch fails.").
					Bool()
		listenAddress = kingpin.Flag("web.listen-address", "Address to bind the exporter to.").
				Default(types.DefaultListenAddress).String()
		listenPort = kingpin.Flag("web.listen-port", "Port to bind the exporter to.").
				Default(strconv.Itoa(types.DefaultListenPort)).Int()
		metricsPath = kingpin.Flag("web.telemetry-path", "Path the exposition document is served on.").
				Default(types.DefaultMetricsPath).String()
		logLevel = kingpin.Flag("log.level", "Minimum log level. One of: debug, info, warn, error.").
				Default("info").Enum("debug", "info", "warn", "error")
	)
	kingpin.Version(version.Print("riak_exporter"))
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(*logLevel, level.InfoValue())))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	cfg := types.Config{
		StatsURL:             *statsURL,
		ReplStatsURL:         *replStatsURL,
		ListenAddress:        *listenAddress,
		ListenPort:           *listenPort,
		MetricsPath:          *metricsPath,
		FetchTimeout:         *fetchTimeout,
		PropagateFetchErrors: !*ignoreFetchErrors,
	}

	exporter, err := riakexporter.New(cfg, logger, prometheus.NewRegistry())
	if err != nil {
		level.Error(logger).Log("msg", "failed to initialize exporter", "err", err)
		os.Exit(1)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		exporter.Stop()
	}()

	if err := exporter.Start(); err != nil {
		level.Error(logger).Log("msg", "exporter terminated with error", "err", err)
		os.Exit(1)
	}
}
