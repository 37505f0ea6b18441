package pricecheck

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"PriceCheck/internal/catalog"
	"PriceCheck/internal/search"
)

type Metrics struct {
	Lookups   *prometheus.CounterVec
	CacheHits prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricecheck_lookups_total",
				Help: "Lookups by entry point, search mode and outcome state",
			},
			[]string{"source", "mode", "state"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pricecheck_lookup_cache_hits_total",
			Help: "Lookups answered from the query cache",
		}),
	}

	reg.MustRegister(m.Lookups, m.CacheHits)
	return m
}

// Service answers lookups against whatever snapshot the store holds at call
// time. Results are cached per snapshot version, so a refresh never serves
// stale prices.
type Service struct {
	Store   *catalog.Store
	Metrics *Metrics

	cache *gocache.Cache
}

func NewService(store *catalog.Store, ttl time.Duration, metrics *Metrics) *Service {
	if ttl <= 0 {
		ttl = catalog.DefaultRefreshInterval
	}
	return &Service{
		Store:   store,
		Metrics: metrics,
		cache:   gocache.New(ttl, 2*ttl),
	}
}

// Search handles a typed query.
func (s *Service) Search(query string) (Outcome, *catalog.Snapshot) {
	snap := s.Store.Current()
	o := Dispatch(query, s.resolve(snap, query))
	s.count("search", o)
	return o, snap
}

// Scan handles a code delivered by the barcode decoder.
func (s *Service) Scan(code string) (Outcome, *catalog.Snapshot) {
	snap := s.Store.Current()
	o := DispatchScan(code, s.resolve(snap, code))
	s.count("scan", o)
	return o, snap
}

func (s *Service) resolve(snap *catalog.Snapshot, query string) search.Result {
	q := strings.TrimSpace(query)
	if s.cache == nil || snap.Version == "" {
		return search.Resolve(snap.Products, q)
	}

	key := snap.Version + "\x00" + q
	if v, ok := s.cache.Get(key); ok {
		if s.Metrics != nil {
			s.Metrics.CacheHits.Inc()
		}
		return v.(search.Result)
	}

	r := search.Resolve(snap.Products, q)
	s.cache.SetDefault(key, r)
	return r
}

func (s *Service) count(source string, o Outcome) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.Lookups.WithLabelValues(source, o.Mode.String(), string(o.State)).Inc()
}
