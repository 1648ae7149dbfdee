package market

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trading-journal-go/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxRetries = 3

// QuoteClient returns the latest reference price per base asset symbol,
// e.g. "BTC" for the BTCUSDT ticker.
type QuoteClient interface {
	GetTickerPrices(ctx context.Context) (map[string]decimal.Decimal, error)
}

// RestClient reads ticker prices from a Binance-compatible REST API.
// It implements the QuoteClient interface.
type RestClient struct {
	client     *resty.Client
	quoteAsset string
	logger     *zap.Logger
	limiter    *rate.Limiter
	backoff    func(attempt int) time.Duration
}

// ensure RestClient implements the interface
var _ QuoteClient = (*RestClient)(nil)

// NewRestClient creates a new market data client.
func NewRestClient(cfg config.Market, logger *zap.Logger) *RestClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second)

	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	return &RestClient{
		client:     client,
		quoteAsset: strings.ToUpper(cfg.QuoteAsset),
		logger:     logger.Named("market"),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		backoff:    exponentialBackoff,
	}
}

// exponentialBackoff waits 1s, 2s, 4s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

// tickerPrice represents the response for a single ticker price.
type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// GetTickerPrices fetches every ticker quoted in the configured quote asset
// and keys the result by base asset.
func (c *RestClient) GetTickerPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	var prices []tickerPrice

	req := c.client.R().
		SetContext(ctx).
		SetResult(&prices).
		SetHeader("Accept", "application/json")

	if _, err := c.doRequest(ctx, http.MethodGet, "/ticker/price", req); err != nil {
		return nil, fmt.Errorf("failed to get ticker prices: %w", err)
	}

	out := make(map[string]decimal.Decimal)
	for _, p := range prices {
		base, ok := strings.CutSuffix(p.Symbol, c.quoteAsset)
		if !ok || base == "" {
			continue
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil || !price.IsPositive() {
			c.logger.Debug("Skipping unusable ticker price", zap.String("symbol", p.Symbol), zap.String("price", p.Price))
			continue
		}
		out[base] = price
	}
	return out, nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil
		}

		shouldRetry := false
		var retryAfter time.Duration

		if err == nil && resp != nil {
			statusCode := resp.StatusCode()
			switch {
			case statusCode == http.StatusTooManyRequests || statusCode == http.StatusTeapot:
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			case statusCode >= 500:
				shouldRetry = true
			}
			err = fmt.Errorf("request failed with status %s", resp.Status())
		} else {
			// Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("%w: %s", err, resp.String())
		}

		if i == maxRetries-1 {
			break
		}
		if retryAfter == 0 {
			retryAfter = c.backoff(i)
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}
