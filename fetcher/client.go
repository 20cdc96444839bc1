package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/krazyTry/kliquidity-go/dex/meteora"
	"github.com/krazyTry/kliquidity-go/dex/orca"
	"github.com/krazyTry/kliquidity-go/dex/raydium"
	solanago "github.com/krazyTry/kliquidity-go/solana"
)

const defaultMaxPages = 32

type Client struct {
	reader   solanago.AccountReader
	logger   *zap.Logger
	limiter  *rate.Limiter
	metrics  *Metrics
	maxPages int
}

type Option func(*Client)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDelay spaces paged requests at least d apart. Zero disables the wait.
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithMaxPages bounds how many arrays a boundary search visits.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

func New(reader solanago.AccountReader, opts ...Option) *Client {
	c := &Client{
		reader:   reader,
		logger:   zap.NewNop(),
		limiter:  rate.NewLimiter(rate.Inf, 1),
		maxPages: defaultMaxPages,
	}
	for _, fn := range opts {
		fn(c)
	}
	if c.metrics != nil {
		c.reader = &instrumentedReader{next: reader, metrics: c.metrics}
	}
	return c
}

func (c *Client) FetchWhirlpool(ctx context.Context, address solana.PublicKey) (*orca.Whirlpool, error) {
	data, err := solanago.GetAccountData(ctx, c.reader, address)
	if err != nil {
		return nil, fmt.Errorf("fetch whirlpool %s: %w", address, err)
	}
	return orca.DecodeWhirlpool(data)
}

func (c *Client) FetchRaydiumPool(ctx context.Context, address solana.PublicKey) (*raydium.PoolState, error) {
	data, err := solanago.GetAccountData(ctx, c.reader, address)
	if err != nil {
		return nil, fmt.Errorf("fetch raydium pool %s: %w", address, err)
	}
	return raydium.DecodePoolState(data)
}

func (c *Client) FetchLbPair(ctx context.Context, address solana.PublicKey) (*meteora.LbPair, error) {
	data, err := solanago.GetAccountData(ctx, c.reader, address)
	if err != nil {
		return nil, fmt.Errorf("fetch lb pair %s: %w", address, err)
	}
	return meteora.DecodeLbPair(data)
}

// MintDecimals returns the decimals of each mint in order.
func (c *Client) MintDecimals(ctx context.Context, mints ...solana.PublicKey) ([]uint8, error) {
	return solanago.MintDecimals(ctx, c.reader, mints...)
}

// CurrentEpoch is the epoch autodrift windows are compared against.
func (c *Client) CurrentEpoch(ctx context.Context) (uint64, error) {
	return solanago.GetCurrentEpoch(ctx, c.reader)
}

type instrumentedReader struct {
	next    solanago.AccountReader
	metrics *Metrics
}

func (r *instrumentedReader) GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
	r.metrics.rpcRequest("getAccountInfo")
	return r.next.GetAccountInfoWithOpts(ctx, account, opts)
}

func (r *instrumentedReader) GetMultipleAccountsWithOpts(ctx context.Context, accounts []solana.PublicKey, opts *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error) {
	r.metrics.rpcRequest("getMultipleAccounts")
	return r.next.GetMultipleAccountsWithOpts(ctx, accounts, opts)
}

func (r *instrumentedReader) GetProgramAccountsWithOpts(ctx context.Context, program solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error) {
	r.metrics.rpcRequest("getProgramAccounts")
	return r.next.GetProgramAccountsWithOpts(ctx, program, opts)
}

func (r *instrumentedReader) GetEpochInfo(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetEpochInfoResult, error) {
	r.metrics.rpcRequest("getEpochInfo")
	return r.next.GetEpochInfo(ctx, commitment)
}
