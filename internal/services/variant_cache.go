// Package services - Variant Cache (Phase1 -> Phase2 handoff)
package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vantora/replenish/internal/metrics"
	"github.com/vantora/replenish/internal/models"
	"github.com/redis/go-redis/v9"
)

// VariantCache persists a run's enumerated Variants between Phase1 (enumerate
// + budget bounds) and Phase2 (select + materialize), grounded on
// MarketOrderCache's gzip+JSON blob pattern.
type VariantCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewVariantCache creates a new Variant Cache with the given TTL.
func NewVariantCache(redisClient *redis.Client, ttl time.Duration) *VariantCache {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &VariantCache{redis: redisClient, ttl: ttl}
}

// dealVariantsWire is the JSON-stable shape stored in the blob; it carries
// each Deal alongside its Variants so a Phase2 run can reconstruct full
// Item context without re-querying the catalogue.
type dealVariantsWire struct {
	Deal     models.Deal      `json:"deal"`
	Variants []models.Variant `json:"variants"`
}

// Set compresses and stores the run's DealVariants under the report's key.
func (c *VariantCache) Set(ctx context.Context, reportID string, dealVariants []DealVariants) ([]byte, error) {
	wire := make([]dealVariantsWire, len(dealVariants))
	for i, dv := range dealVariants {
		wire[i] = dealVariantsWire{Deal: dv.Deal, Variants: dv.Variants}
	}

	compressed, err := compressVariants(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to compress variants: %w", err)
	}

	key := variantCacheKey(reportID)
	if c.redis != nil {
		if err := c.redis.Set(ctx, key, compressed, c.ttl).Err(); err != nil {
			return nil, fmt.Errorf("failed to set variant cache: %w", err)
		}
	}

	return compressed, nil
}

// Get retrieves and decompresses the report's DealVariants, preferring
// Redis and falling back to a caller-supplied blob (e.g. the
// serialized_variants column) when the Redis entry has expired.
func (c *VariantCache) Get(ctx context.Context, reportID string, fallback []byte) ([]DealVariants, error) {
	var data []byte

	if c.redis != nil {
		if cached, err := c.redis.Get(ctx, variantCacheKey(reportID)).Bytes(); err == nil {
			data = cached
			metrics.VariantCacheHitsTotal.Inc()
		} else {
			metrics.VariantCacheMissesTotal.Inc()
		}
	}
	if data == nil {
		data = fallback
	}
	if data == nil {
		return nil, fmt.Errorf("no cached variants for report %s", reportID)
	}

	wire, err := decompressVariants(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress variants: %w", err)
	}

	out := make([]DealVariants, len(wire))
	for i, w := range wire {
		out[i] = DealVariants{Deal: w.Deal, Variants: w.Variants}
	}
	return out, nil
}

func variantCacheKey(reportID string) string {
	return fmt.Sprintf("variants:%s", reportID)
}

func compressVariants(wire []dealVariantsWire) ([]byte, error) {
	jsonData, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := gzipWriter.Write(jsonData); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decompressVariants(data []byte) ([]dealVariantsWire, error) {
	gzipReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gzipReader.Close()

	jsonData, err := io.ReadAll(gzipReader)
	if err != nil {
		return nil, err
	}

	var wire []dealVariantsWire
	if err := json.Unmarshal(jsonData, &wire); err != nil {
		return nil, err
	}

	return wire, nil
}
