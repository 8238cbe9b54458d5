package app

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"textbuddy/internal/backend"
	"textbuddy/internal/deeplink"
	"textbuddy/internal/domain"
	xlog "textbuddy/internal/log"
	"textbuddy/internal/metrics"
	"textbuddy/internal/services/subscription"
	"textbuddy/internal/sms"
	"textbuddy/internal/store"
)

// Wire bundles the store, clients and services built from a Config.
type Wire struct {
	Config    Config
	Store     domain.KVStore
	Transport *backend.HTTPTransport
	Connect   *backend.Client
	SMS       *sms.Composer
	Links     *deeplink.Relay
	Registry  *prometheus.Registry
	Metrics   *metrics.Recorder
	Service   *subscription.Service
}

// NewWire constructs the dependency graph from cfg. open receives every
// SMS composer URL; nil only logs it.
func NewWire(cfg Config, open sms.Opener) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Store != store.KindMemory {
		if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
			return nil, fmt.Errorf("create home: %w", err)
		}
	}
	kv, err := store.Open(cfg.Store, cfg.Home, cfg.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	transport := backend.NewHTTPTransport(backend.NewHTTPClient())
	connect := backend.NewClient(transport, xlog.ForSDK("backend", cfg.EnableLogs))
	composer := sms.NewComposer(cfg.Platform, open, xlog.ForSDK("sms", cfg.EnableLogs))
	links := deeplink.NewRelay()
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	svc, err := subscription.New(subscription.Config{
		GameID:     domain.GameID(cfg.GameID),
		APIKey:     cfg.APIKey,
		EnableLogs: cfg.EnableLogs,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
	}, subscription.Deps{
		Connect: connect,
		Store:   kv,
		SMS:     composer,
		Links:   links,
		Metrics: rec,
	})
	if err != nil {
		closeStore(kv)
		return nil, err
	}

	return &Wire{
		Config:    cfg,
		Store:     kv,
		Transport: transport,
		Connect:   connect,
		SMS:       composer,
		Links:     links,
		Registry:  reg,
		Metrics:   rec,
		Service:   svc,
	}, nil
}

// Close stops the service and releases the store.
func (w *Wire) Close() error {
	w.Service.Close()
	return closeStore(w.Store)
}

func closeStore(kv domain.KVStore) error {
	if c, ok := kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
