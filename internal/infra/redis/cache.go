package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/joaoac/cryptofolio/pkg/logger"
)

const (
	// DefaultTTL bounds how stale a cached balance may get if an
	// invalidation is ever missed
	DefaultTTL = 60 * time.Second

	// KeyPrefix is the prefix for balance cache keys
	KeyPrefix = "balance:"
)

// BalanceCache is a Redis-backed cache for computed wallet balances
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewBalanceCache creates a new balance cache with the default TTL
func NewBalanceCache(client *redis.Client, log *logger.Logger) *BalanceCache {
	return &BalanceCache{
		client: client,
		ttl:    DefaultTTL,
		logger: log.WithField("component", "balance_cache"),
	}
}

// NewBalanceCacheWithTTL creates a new balance cache with a custom TTL
func NewBalanceCacheWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *BalanceCache {
	return &BalanceCache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "balance_cache"),
	}
}

// cachedBalances serializes balances as decimal strings to avoid float
// round-trips through JSON
type cachedBalances struct {
	Balances  map[string]string `json:"balances"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Get retrieves the cached balance map for a wallet
func (c *BalanceCache) Get(ctx context.Context, walletID int64) (map[string]decimal.Decimal, bool, error) {
	key := fmt.Sprintf("%s%d", KeyPrefix, walletID)

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.logger.Debug("cache miss", "wallet_id", walletID)
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "wallet_id", walletID, "error", err)
		return nil, false, fmt.Errorf("failed to get cached balances: %w", err)
	}

	var cached cachedBalances
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached balances: %w", err)
	}

	balances := make(map[string]decimal.Decimal, len(cached.Balances))
	for symbol, raw := range cached.Balances {
		quantity, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, false, fmt.Errorf("failed to parse cached balance for %s: %w", symbol, err)
		}
		balances[symbol] = quantity
	}

	c.logger.Debug("cache hit", "wallet_id", walletID)
	return balances, true, nil
}

// Set stores a wallet's balance map in the cache
func (c *BalanceCache) Set(ctx context.Context, walletID int64, balances map[string]decimal.Decimal) error {
	key := fmt.Sprintf("%s%d", KeyPrefix, walletID)

	cached := cachedBalances{
		Balances:  make(map[string]string, len(balances)),
		UpdatedAt: time.Now().UTC(),
	}
	for symbol, quantity := range balances {
		cached.Balances[symbol] = quantity.String()
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal balances: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "wallet_id", walletID, "error", err)
		return fmt.Errorf("failed to set cached balances: %w", err)
	}

	return nil
}

// Invalidate drops the cached balances for a wallet. Called after every
// transaction write touching the wallet.
func (c *BalanceCache) Invalidate(ctx context.Context, walletID int64) error {
	key := fmt.Sprintf("%s%d", KeyPrefix, walletID)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("cache error", "operation", "invalidate", "wallet_id", walletID, "error", err)
		return fmt.Errorf("failed to invalidate cached balances: %w", err)
	}

	return nil
}
