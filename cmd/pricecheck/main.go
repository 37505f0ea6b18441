package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"PriceCheck/internal/catalog"
	"PriceCheck/internal/config"
	"PriceCheck/internal/pricecheck"
	"PriceCheck/pkg/kit"
)

func main() {
	service := "pricecheck"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, closeSrc, err := newSource(ctx, cfg)
	if err != nil {
		log.Fatal("init catalog source failed", zap.String("source", cfg.FeedSource), zap.Error(err))
	}
	defer closeSrc()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store := catalog.NewStore()
	refresher := &catalog.Refresher{
		Source:   src,
		Store:    store,
		Log:      log,
		Metrics:  catalog.NewRefreshMetrics(reg),
		Interval: cfg.RefreshInterval,
		Timeout:  cfg.FetchTimeout,
	}

	// The first load is the only one whose failure is reported; the server
	// still starts and /readyz stays 503 until a background refresh succeeds.
	if err := refresher.Load(ctx, false); err != nil {
		log.Error("initial catalog load failed, serving empty catalog", zap.Error(err))
	}
	go refresher.Run(ctx)

	s := &pricecheck.Server{
		Service: pricecheck.NewService(store, cfg.RefreshInterval, pricecheck.NewMetrics(reg)),
		Store:   store,
		Log:     log,
	}

	h := pricecheck.NewHandler(s, pricecheck.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   cfg.MetricsToken,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	if err := kit.RunHTTPServer(ctx, ":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func newSource(ctx context.Context, cfg config.Config) (catalog.Source, func(), error) {
	noop := func() {}

	switch cfg.FeedSource {
	case config.SourceS3:
		src, err := catalog.NewS3Source(ctx, catalog.S3Options{
			Bucket:          cfg.S3Bucket,
			Key:             cfg.S3Key,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		return src, noop, err

	case config.SourcePostgres:
		pool, err := catalog.NewPostgresPool(ctx, cfg.DBDSN)
		if err != nil {
			return nil, noop, err
		}
		return catalog.NewPostgresSource(pool), pool.Close, nil

	default:
		return catalog.NewHTTPSource(cfg.FeedURL, cfg.FetchTimeout), noop, nil
	}
}
