// Package catalogclient - HTTP adapter for the external Catalogue/Stock/Ledger collaborator
package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vantora/replenish/internal/database"
	"github.com/vantora/replenish/internal/metrics"
	"github.com/vantora/replenish/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Compile-time interface compliance: Client can stand in for the SQLite
// CatalogueRepository behind database.CatalogueQuerier.
var _ database.CatalogueQuerier = (*Client)(nil)

// Config holds catalogclient configuration.
type Config struct {
	BaseURL        string
	UserAgent      string
	RateLimit      float64 // requests/second
	Burst          int
	ErrorThreshold uint32 // consecutive failures before the breaker opens
	Timeout        time.Duration
}

// DefaultConfig returns sane defaults for a 300 req/min, 400-burst budget
// against the upstream Catalogue/Stock/Ledger service.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		UserAgent:      "replenish/1.0",
		RateLimit:      5.0,
		Burst:          400,
		ErrorThreshold: 5,
		Timeout:        10 * time.Second,
	}
}

// Client is a rate-limited, circuit-broken HTTP client for the external
// Catalogue/Stock/Ledger system. It implements database.CatalogueQuerier, so
// it can be swapped in for the SQLite CatalogueRepository, and additionally
// offers UpsertADS; it has no GetADS/GetAllADS and so does not satisfy
// database.ADSQuerier. Uses a token-bucket limiter plus sony/gobreaker for open/half-open/closed
// circuit state around the outbound calls.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// New creates a new catalogclient.Client.
func New(cfg Config) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "catalogclient",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ErrorThreshold
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		breaker:    breaker,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	_, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("server error: status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			respBody, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("client error: status %d: %s", resp.StatusCode, string(respBody))
		}

		if out == nil {
			return nil, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return nil, nil
	})

	if err != nil {
		metrics.CatalogueRequestsTotal.WithLabelValues("error").Inc()
	} else {
		metrics.CatalogueRequestsTotal.WithLabelValues("ok").Inc()
	}

	return err
}

// ListProducts lists every catalogued product.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// GetBrand fetches a single brand by id.
func (c *Client) GetBrand(ctx context.Context, brandID int) (models.Brand, error) {
	var out models.Brand
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/brands/%d", brandID), nil, &out); err != nil {
		return models.Brand{}, fmt.Errorf("get brand %d: %w", brandID, err)
	}
	return out, nil
}

// ListTiers lists the MOQ price tiers for a product.
func (c *Client) ListTiers(ctx context.Context, productID int) ([]models.PriceTier, error) {
	var out []models.PriceTier
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d/tiers", productID), nil, &out); err != nil {
		return nil, fmt.Errorf("list tiers for product %d: %w", productID, err)
	}
	return out, nil
}

// Stock returns the on-hand quantity of a product at a warehouse.
func (c *Client) Stock(ctx context.Context, warehouseID, productID int) (decimal.Decimal, error) {
	var out struct {
		Quantity decimal.Decimal `json:"quantity"`
	}
	path := fmt.Sprintf("/warehouses/%d/stock/%d", warehouseID, productID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return decimal.Zero, fmt.Errorf("get stock: %w", err)
	}
	return out.Quantity, nil
}

// PostedSales lists the posted sale records the upstream service returns
// for the start/end window; both bounds are passed through unchanged.
func (c *Client) PostedSales(ctx context.Context, start, end int64) ([]models.SaleRecord, error) {
	var out []models.SaleRecord
	path := fmt.Sprintf("/sales/posted?start=%d&end=%d", start, end)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list posted sales: %w", err)
	}
	return out, nil
}

// upsertADSRequest is the wire shape for UpsertADS.
type upsertADSRequest struct {
	ProductID int             `json:"product_id"`
	ADS       decimal.Decimal `json:"ads"`
	Now       int64           `json:"now"`
}

// UpsertADS writes one product's ADS snapshot upstream.
func (c *Client) UpsertADS(ctx context.Context, snap models.ADSSnapshot) error {
	body, err := json.Marshal(upsertADSRequest{ProductID: snap.ProductID, ADS: snap.ADS, Now: snap.LastUpdated})
	if err != nil {
		return fmt.Errorf("marshal upsert_ads request: %w", err)
	}
	if err := c.do(ctx, http.MethodPost, "/ads", bytes.NewReader(body), nil); err != nil {
		return fmt.Errorf("upsert ads for product %d: %w", snap.ProductID, err)
	}
	return nil
}
