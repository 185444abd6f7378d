package server

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/basho-labs/riak-exporter/exposition"
	"github.com/basho-labs/riak-exporter/fetch"
	"github.com/basho-labs/riak-exporter/flatten"
	"github.com/basho-labs/riak-exporter/stats"
	"github.com/basho-labs/riak-exporter/types"
)

// scraper drives one scrape: both upstream documents are fetched on their
// own goroutines so the two network calls overlap, each is flattened with
// its own rule set, and the rendered bodies are concatenated with primary
// metrics always first.
type scraper struct {
	cfg     types.Config
	fetcher *fetch.Client
	stats   *stats.Stats
	log     log.Logger
}

// source is one upstream endpoint together with its naming prefix and
// flattening rules.
type source struct {
	name    string
	url     string
	prefix  string
	flatten func(types.Document, string) types.MetricStream
}

func newScraper(cfg types.Config, fetcher *fetch.Client, st *stats.Stats, logger log.Logger) *scraper {
	return &scraper{
		cfg:     cfg,
		fetcher: fetcher,
		stats:   st,
		log:     log.With(logger, "component", "scrape"),
	}
}

func (s *scraper) sources() [2]source {
	return [2]source{
		{name: "stats", url: s.cfg.StatsURL, prefix: "riak", flatten: flatten.Metrics},
		{name: "repl_stats", url: s.cfg.ReplStatsURL, prefix: "riak_repl", flatten: flatten.ReplMetrics},
	}
}

// scrape produces the full exposition body for one request. With error
// propagation enabled a failed fetch fails the whole scrape, primary
// errors taking precedence; with it disabled the failed source simply
// contributes no metrics.
func (s *scraper) scrape(ctx context.Context) (string, error) {
	sources := s.sources()

	var (
		wg     sync.WaitGroup
		bodies [2]string
		errs   [2]error
	)
	for i, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bodies[i], errs[i] = s.collect(ctx, src)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		level.Error(s.log).Log("msg", "error fetching upstream stats", "url", sources[i].url, "err", err)
		if s.cfg.PropagateFetchErrors {
			return "", err
		}
	}
	return bodies[0] + bodies[1], nil
}

func (s *scraper) collect(ctx context.Context, src source) (string, error) {
	s.stats.FetchesTotal.WithLabelValues(src.name).Inc()
	start := time.Now()
	doc, err := s.fetcher.Fetch(ctx, src.url, s.cfg.FetchTimeout)
	s.stats.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.stats.FetchFailuresTotal.WithLabelValues(src.name).Inc()
		return "", err
	}
	return exposition.Render(src.flatten(doc, src.prefix)), nil
}
