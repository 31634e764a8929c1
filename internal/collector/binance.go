package collector

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"

	"SignalSentinel/internal/model"
)

const (
	binanceKlineLimit = 1000
	binanceMaxRetries = 3
)

// binanceEpoch bounds "max" requests; the exchange has no earlier spot klines.
var binanceEpoch = time.Date(2017, time.July, 1, 0, 0, 0, 0, time.UTC)

// BinanceFetcher implements Fetcher with Binance spot klines.
type BinanceFetcher struct {
	client  *binance.Client
	limiter *rate.Limiter
	backoff time.Duration
	Now     func() time.Time
}

// NewBinanceFetcher creates a fetcher limited to rps requests per second.
func NewBinanceFetcher(apiKey, secretKey, proxyURL string, rps float64) *BinanceFetcher {
	if rps <= 0 {
		rps = 10
	}
	client := binance.NewClient(apiKey, secretKey)
	client.HTTPClient = newHTTPClient(proxyURL)
	return &BinanceFetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), int(math.Ceil(rps))),
		backoff: 100 * time.Millisecond,
		Now:     time.Now,
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// FetchBars pages through klines from the start of period up to now.
func (f *BinanceFetcher) FetchBars(ctx context.Context, symbol string, period Period, interval model.Interval) ([]model.OHLCV, error) {
	symbol = strings.ToUpper(symbol)
	end := f.Now().UTC()
	start := period.Since(end)
	if start.Before(binanceEpoch) {
		start = binanceEpoch
	}

	var bars []model.OHLCV
	startMs, endMs := start.UnixMilli(), end.UnixMilli()
	for startMs < endMs {
		klines, err := f.klines(ctx, symbol, interval.BinanceCode(), startMs, endMs)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
		}
		for _, k := range klines {
			bar, err := klineToBar(k)
			if err != nil {
				log.Printf("[WARN] skipping malformed kline for %s: %v", symbol, err)
				continue
			}
			bars = append(bars, bar)
		}
		if len(klines) < binanceKlineLimit {
			break
		}
		startMs = klines[len(klines)-1].OpenTime + 1
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("binance %s: %w", symbol, ErrNoData)
	}
	return bars, nil
}

// klines performs one page request with rate limiting and exponential backoff.
func (f *BinanceFetcher) klines(ctx context.Context, symbol, interval string, startMs, endMs int64) ([]*binance.Kline, error) {
	var lastErr error
	for attempt := 0; attempt <= binanceMaxRetries; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		klines, err := f.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(startMs).
			EndTime(endMs).
			Limit(binanceKlineLimit).
			Do(ctx)
		if err == nil {
			return klines, nil
		}
		lastErr = err
		if attempt == binanceMaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.backoff << uint(attempt)):
		}
	}
	return nil, lastErr
}

func klineToBar(k *binance.Kline) (model.OHLCV, error) {
	values := make([]float64, 5)
	for i, s := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("parse %q: %w", s, err)
		}
		values[i] = v
	}
	return model.OHLCV{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}
