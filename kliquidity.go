package kliquidity

import (
	"errors"
	"net/http"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/krazyTry/kliquidity-go/config"
	"github.com/krazyTry/kliquidity-go/fetcher"
	"github.com/krazyTry/kliquidity-go/logging"
)

// NewFetcher creates a fetcher over any account reader, e.g. a test double.
//
// Example:
//
// f := NewFetcher(rpc.New(rpc.MainNetBeta_RPC), fetcher.WithDelay(100*time.Millisecond))
//
// ticks, _ := f.TicksForRange(ctx, dex.DexOrca, whirlpool, 64, -5000, 5000)
var NewFetcher = fetcher.New

// Client bundles the RPC connection, logger and fetcher built from a Config.
type Client struct {
	*fetcher.Client

	RPC    *rpc.Client
	Logger *zap.Logger

	registry *prometheus.Registry
}

// NewClient wires config -> logger -> rpc -> fetcher. A nil cfg uses
// config.Default().
//
// Example:
//
// cfg, _ := config.Load("config.yaml")
//
// _ = config.LoadEnv(cfg)
//
// client, _ := NewClient(cfg)
//
// pool, _ := client.FetchWhirlpool(ctx, whirlpool)
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.RPC.URL == "" {
		return nil, errors.New("rpc.url is required")
	}

	logger := logging.New(cfg.Log)
	rpcClient := rpc.New(cfg.RPC.URL)

	opts := []fetcher.Option{
		fetcher.WithLogger(logger),
		fetcher.WithDelay(cfg.Fetch.Delay),
		fetcher.WithMaxPages(cfg.Fetch.MaxPages),
	}
	var registry *prometheus.Registry
	if cfg.Fetch.Metrics {
		registry = prometheus.NewRegistry()
		opts = append(opts, fetcher.WithMetrics(fetcher.NewMetrics(registry)))
	}

	logger.Info("kliquidity client ready",
		zap.String("rpc", cfg.RPC.URL),
		zap.Duration("fetch_delay", cfg.Fetch.Delay),
		zap.Bool("metrics", cfg.Fetch.Metrics),
	)
	return &Client{
		Client:   fetcher.New(rpcClient, opts...),
		RPC:      rpcClient,
		Logger:   logger,
		registry: registry,
	}, nil
}

// MetricsHandler serves the fetcher counters, or nil when metrics are off.
func (c *Client) MetricsHandler() http.Handler {
	if c.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Client) Close() error {
	_ = c.Logger.Sync()
	return c.RPC.Close()
}
