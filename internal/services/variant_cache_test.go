package services

import (
	"context"
	"testing"
	"time"

	"github.com/vantora/replenish/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleDealVariants() []DealVariants {
	return []DealVariants{
		{
			Deal: models.Deal{BrandID: 1, BrandName: "Acme", Items: []models.Item{
				{ProductID: 10, SKU: "SKU-10", Name: "Widget", BrandID: 1, SalePrice: decimal.NewFromFloat(10)},
			}},
			Variants: []models.Variant{
				{BrandID: 1, M: 20, Budget: decimal.NewFromFloat(140), Efficiency: decimal.NewFromFloat(60)},
			},
		},
	}
}

func TestNewVariantCache(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer redisClient.Close()

	t.Run("applies a default TTL when none is given", func(t *testing.T) {
		cache := NewVariantCache(redisClient, 0)
		assert.Equal(t, 2*time.Hour, cache.ttl)
	})

	t.Run("keeps a positive TTL", func(t *testing.T) {
		cache := NewVariantCache(redisClient, 10*time.Minute)
		assert.Equal(t, 10*time.Minute, cache.ttl)
	})
}

func TestVariantCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer redisClient.Close()

	cache := NewVariantCache(redisClient, time.Hour)
	ctx := context.Background()

	dealVariants := sampleDealVariants()
	blob, err := cache.Set(ctx, "report-1", dealVariants)
	assert.NoError(t, err)
	assert.NotEmpty(t, blob)

	got, err := cache.Get(ctx, "report-1", nil)
	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, 1, got[0].Deal.BrandID)
		assert.Len(t, got[0].Variants, 1)
		assert.Equal(t, 20, got[0].Variants[0].M)
	}
}

func TestVariantCache_Get_fallsBackToSuppliedBlobWhenRedisMiss(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer redisClient.Close()

	cache := NewVariantCache(redisClient, time.Hour)
	ctx := context.Background()

	dealVariants := sampleDealVariants()
	blob, err := cache.Set(ctx, "report-2", dealVariants)
	assert.NoError(t, err)

	s.FlushAll() // simulate the Redis entry having expired

	got, err := cache.Get(ctx, "report-2", blob)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestVariantCache_Get_noDataAnywhereErrors(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer redisClient.Close()

	cache := NewVariantCache(redisClient, time.Hour)
	_, err := cache.Get(context.Background(), "does-not-exist", nil)
	assert.Error(t, err)
}

func TestVariantCache_worksWithoutARedisClient(t *testing.T) {
	cache := NewVariantCache(nil, time.Hour)
	ctx := context.Background()

	dealVariants := sampleDealVariants()
	blob, err := cache.Set(ctx, "report-3", dealVariants)
	assert.NoError(t, err)
	assert.NotEmpty(t, blob)

	got, err := cache.Get(ctx, "report-3", blob)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}
