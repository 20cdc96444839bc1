package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/krazyTry/kliquidity-go/dex"
	"github.com/krazyTry/kliquidity-go/dex/meteora"
	"github.com/krazyTry/kliquidity-go/dex/orca"
	"github.com/krazyTry/kliquidity-go/dex/raydium"
	"github.com/krazyTry/kliquidity-go/quote"
	solanago "github.com/krazyTry/kliquidity-go/solana"
)

// MaxTickArrays caps the arrays a single range fetch may request.
const MaxTickArrays = 1000

var (
	ErrTickArrayNotFound = errors.New("tick array not found")
	ErrRangeTooWide      = errors.New("tick range spans too many arrays")
	ErrUnsupportedDex    = errors.New("unsupported dex")
)

// TickArrays holds the decoded arrays of one pool; only the slice matching
// Dex is populated. Arrays are ordered by start index.
type TickArrays struct {
	Dex     dex.Dex
	Orca    []*orca.TickArray
	Raydium []*raydium.TickArray
	Meteora []*meteora.BinArray
}

func (a *TickArrays) Len() int {
	return len(a.Orca) + len(a.Raydium) + len(a.Meteora)
}

func (a *TickArrays) add(data []byte) error {
	switch a.Dex {
	case dex.DexOrca:
		t, err := orca.DecodeTickArray(data)
		if err != nil {
			return err
		}
		a.Orca = append(a.Orca, t)
	case dex.DexRaydium:
		t, err := raydium.DecodeTickArray(data)
		if err != nil {
			return err
		}
		a.Raydium = append(a.Raydium, t)
	case dex.DexMeteora:
		b, err := meteora.DecodeBinArray(data)
		if err != nil {
			return err
		}
		a.Meteora = append(a.Meteora, b)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDex, a.Dex)
	}
	return nil
}

func (a *TickArrays) sort() {
	sort.Slice(a.Orca, func(i, j int) bool { return a.Orca[i].StartTickIndex < a.Orca[j].StartTickIndex })
	sort.Slice(a.Raydium, func(i, j int) bool { return a.Raydium[i].StartTickIndex < a.Raydium[j].StartTickIndex })
	sort.Slice(a.Meteora, func(i, j int) bool { return a.Meteora[i].Index < a.Meteora[j].Index })
}

// arrayStart returns the first tick (or bin) of the array holding tick and
// the width of one array in ticks.
func arrayStart(d dex.Dex, tick int32, spacing uint16) (int32, int32, error) {
	switch d {
	case dex.DexOrca:
		if spacing == 0 {
			return 0, 0, fmt.Errorf("%w: tick spacing is zero", ErrUnsupportedDex)
		}
		return orca.GetStartTickIndex(tick, spacing, 0), int32(orca.TickArraySize) * int32(spacing), nil
	case dex.DexRaydium:
		if spacing == 0 {
			return 0, 0, fmt.Errorf("%w: tick spacing is zero", ErrUnsupportedDex)
		}
		return raydium.GetArrayStartIndex(tick, spacing), int32(raydium.TickArraySize) * int32(spacing), nil
	case dex.DexMeteora:
		return int32(meteora.BinIdToBinArrayIndex(tick)) * meteora.MaxBinPerArray, meteora.MaxBinPerArray, nil
	}
	return 0, 0, fmt.Errorf("%w: %s", ErrUnsupportedDex, d)
}

func arrayAddress(d dex.Dex, pool solana.PublicKey, start int32) (solana.PublicKey, error) {
	switch d {
	case dex.DexOrca:
		return orca.DeriveTickArrayPDA(pool, start)
	case dex.DexRaydium:
		return raydium.GetPdaTickArrayAddress(pool, start)
	case dex.DexMeteora:
		return meteora.DeriveBinArray(pool, int64(start/meteora.MaxBinPerArray))
	}
	return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrUnsupportedDex, d)
}

func tickBounds(d dex.Dex) (int32, int32) {
	switch d {
	case dex.DexRaydium:
		return raydium.MinTick, raydium.MaxTick
	case dex.DexMeteora:
		return meteora.MinBinId, meteora.MaxBinId
	default:
		return orca.MinTickIndex, orca.MaxTickIndex
	}
}

// FetchTickArrays loads every initialized array covering [tickLower, tickUpper].
// For Meteora the ticks are bin ids and spacing is ignored.
func (c *Client) FetchTickArrays(ctx context.Context, d dex.Dex, pool solana.PublicKey, spacing uint16, tickLower, tickUpper int32) (*TickArrays, error) {
	if tickLower > tickUpper {
		return nil, fmt.Errorf("%w: %d > %d", quote.ErrInvalidRange, tickLower, tickUpper)
	}
	first, width, err := arrayStart(d, tickLower, spacing)
	if err != nil {
		return nil, err
	}
	last, _, err := arrayStart(d, tickUpper, spacing)
	if err != nil {
		return nil, err
	}
	count := (int64(last)-int64(first))/int64(width) + 1
	if count > MaxTickArrays {
		return nil, fmt.Errorf("%w: %d arrays", ErrRangeTooWide, count)
	}

	addresses := make([]solana.PublicKey, 0, count)
	for start := int64(first); start <= int64(last); start += int64(width) {
		addr, err := arrayAddress(d, pool, int32(start))
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}

	accounts, err := solanago.GetMultipleAccountInfo(ctx, c.reader, addresses)
	if err != nil {
		return nil, fmt.Errorf("fetch tick arrays of %s: %w", pool, err)
	}
	out := &TickArrays{Dex: d}
	for i, account := range accounts {
		if account == nil || account.Data == nil {
			continue
		}
		if err := out.add(account.Data.GetBinary()); err != nil {
			return nil, fmt.Errorf("decode tick array %s: %w", addresses[i], err)
		}
	}
	c.metrics.tickArrays(d.String(), out.Len())
	c.logger.Debug("tick arrays fetched",
		zap.Stringer("dex", d),
		zap.Stringer("pool", pool),
		zap.Int("requested", len(addresses)),
		zap.Int("initialized", out.Len()),
	)
	return out, nil
}

// TicksForRange returns the initialized ticks of an Orca or Raydium pool in
// [tickLower, tickUpper], ready for quote.GetLiquidityDistribution.
func (c *Client) TicksForRange(ctx context.Context, d dex.Dex, pool solana.PublicKey, spacing uint16, tickLower, tickUpper int32) ([]quote.TickLiquidity, error) {
	if d == dex.DexMeteora {
		return nil, fmt.Errorf("%w: %s has bins, use BinsForRange", ErrUnsupportedDex, d)
	}
	arrays, err := c.FetchTickArrays(ctx, d, pool, spacing, tickLower, tickUpper)
	if err != nil {
		return nil, err
	}
	var ticks []quote.TickLiquidity
	if d == dex.DexOrca {
		ticks = quote.OrcaTickLiquidity(arrays.Orca, spacing)
	} else {
		ticks = quote.RaydiumTickLiquidity(arrays.Raydium)
	}
	return inRange(ticks, tickLower, tickUpper), nil
}

func inRange(ticks []quote.TickLiquidity, lower, upper int32) []quote.TickLiquidity {
	out := ticks[:0]
	for _, t := range ticks {
		if t.TickIndex >= lower && t.TickIndex <= upper {
			out = append(out, t)
		}
	}
	return out
}

// BinsForRange returns the non-empty bins of a DLMM pair in [binLower, binUpper].
func (c *Client) BinsForRange(ctx context.Context, lbPair solana.PublicKey, binLower, binUpper int32) ([]quote.BinLiquidity, error) {
	arrays, err := c.FetchTickArrays(ctx, dex.DexMeteora, lbPair, 0, binLower, binUpper)
	if err != nil {
		return nil, err
	}
	bins := quote.MeteoraBinLiquidity(arrays.Meteora)
	out := bins[:0]
	for _, b := range bins {
		if b.BinId >= binLower && b.BinId <= binUpper {
			out = append(out, b)
		}
	}
	return out, nil
}

// FindLowestInitializedTickArray walks down from the array holding fromTick
// and returns the start index of the lowest array reached before a missing one.
func (c *Client) FindLowestInitializedTickArray(ctx context.Context, d dex.Dex, pool solana.PublicKey, spacing uint16, fromTick int32) (int32, error) {
	return c.findEdge(ctx, d, pool, spacing, fromTick, -1)
}

// FindHighestInitializedTickArray is the upward counterpart of
// FindLowestInitializedTickArray.
func (c *Client) FindHighestInitializedTickArray(ctx context.Context, d dex.Dex, pool solana.PublicKey, spacing uint16, fromTick int32) (int32, error) {
	return c.findEdge(ctx, d, pool, spacing, fromTick, 1)
}

func (c *Client) findEdge(ctx context.Context, d dex.Dex, pool solana.PublicKey, spacing uint16, fromTick int32, step int64) (int32, error) {
	start, width, err := arrayStart(d, fromTick, spacing)
	if err != nil {
		return 0, err
	}
	minTick, maxTick := tickBounds(d)

	found := false
	var edge int32
	for page := 0; page < c.maxPages; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, err
		}
		addr, err := arrayAddress(d, pool, start)
		if err != nil {
			return 0, err
		}
		_, err = solanago.GetAccountData(ctx, c.reader, addr)
		if errors.Is(err, solanago.ErrAccountNotFound) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("fetch tick array %s: %w", addr, err)
		}
		found, edge = true, start
		c.metrics.tickArrays(d.String(), 1)

		next := int64(start) + step*int64(width)
		if next > int64(maxTick) || next+int64(width) <= int64(minTick) {
			break
		}
		start = int32(next)
	}
	if !found {
		return 0, fmt.Errorf("%w: %s pool %s at tick %d", ErrTickArrayNotFound, d, pool, fromTick)
	}
	c.logger.Debug("tick array edge found",
		zap.Stringer("dex", d),
		zap.Stringer("pool", pool),
		zap.Int64("direction", step),
		zap.Int32("start", edge),
	)
	return edge, nil
}

// scanLayout locates the pool key inside each program's array account.
var scanLayout = map[dex.Dex]struct {
	program solana.PublicKey
	account string
	offset  uint64
}{
	dex.DexOrca:    {orca.WhirlpoolProgramID, "TickArray", 12 + orca.TickArraySize*orca.TickSize},
	dex.DexRaydium: {raydium.ClmmProgramID, "TickArrayState", 8},
	dex.DexMeteora: {meteora.LbClmmProgramID, "BinArray", 24},
}

// ScanTickArrays lists every array account of pool through getProgramAccounts.
// It is one heavy request instead of paging and is meant for full-pool charts.
func (c *Client) ScanTickArrays(ctx context.Context, d dex.Dex, pool solana.PublicKey) (*TickArrays, error) {
	layout, ok := scanLayout[d]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDex, d)
	}
	res, err := solanago.GetProgramAccounts(ctx, c.reader, layout.program, layout.account, solanago.Filter{
		Owner:  pool,
		Offset: layout.offset,
	})
	if err != nil {
		return nil, fmt.Errorf("scan tick arrays of %s: %w", pool, err)
	}
	out := &TickArrays{Dex: d}
	for _, keyed := range res {
		if keyed == nil || keyed.Account == nil || keyed.Account.Data == nil {
			continue
		}
		if err := out.add(keyed.Account.Data.GetBinary()); err != nil {
			return nil, fmt.Errorf("decode tick array %s: %w", keyed.Pubkey, err)
		}
	}
	out.sort()
	c.metrics.tickArrays(d.String(), out.Len())
	return out, nil
}
