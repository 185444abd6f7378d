package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/basho-labs/riak-exporter/fetch"
	"github.com/basho-labs/riak-exporter/stats"
	"github.com/basho-labs/riak-exporter/types"
)

// Server is the exporter's HTTP surface: an index page, the exposition
// endpoint, and the exporter's own telemetry on /debug/metrics. All
// per-request work is delegated to the scraper; the server itself holds
// only immutable configuration.
type Server struct {
	cfg     types.Config
	log     log.Logger
	srv     *http.Server
	scraper *scraper
}

func New(cfg types.Config, logger log.Logger, registry *prometheus.Registry) (*Server, error) {
	fetcher, err := fetch.NewClient(logger)
	if err != nil {
		return nil, err
	}
	st := stats.NewStats("riak", "exporter", registry)

	s := &Server{
		cfg:     cfg,
		log:     log.With(logger, "component", "server"),
		scraper: newScraper(cfg, fetcher, st, logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET "+cfg.MetricsPath, s.handleScrape)
	mux.Handle("GET /debug/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.srv = &http.Server{
		Addr:              net.JoinHostPort(cfg.ListenAddress, strconv.Itoa(cfg.ListenPort)),
		Handler:           gzhttp.GzipHandler(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Handler exposes the full route tree, compression included.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<a href="%s">%s</a>`, s.cfg.MetricsPath, s.cfg.MetricsPath)
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	s.scraper.stats.ScrapesTotal.Inc()
	start := time.Now()
	body, err := s.scraper.scrape(r.Context())
	s.scraper.stats.ScrapeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.scraper.stats.ScrapeFailuresTotal.Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, body)
}
