package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"hrv-service/internal/metrics"
)

// RedisCache кэш результатов анализа поверх Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCache создает новый Redis кэш
func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     100,
		MinIdleConns: 10,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Проверяем подключение
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// AnalysisKey ключ результата: хэш загрузки, стартовый индекс, детектор и разделитель колонок
func AnalysisKey(payload []byte, startIndex int, detector string, delimiter rune) string {
	return fmt.Sprintf("analysis:%s:%q:%d:%016x", detector, delimiter, startIndex, xxhash.Sum64(payload))
}

// StoreAnalysis сохраняет результат анализа
func (r *RedisCache) StoreAnalysis(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	return r.client.Set(ctx, key, jsonData, r.ttl).Err()
}

// GetAnalysis читает результат анализа в dest; false, если ключа нет
func (r *RedisCache) GetAnalysis(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.misses.Add(1)
		r.reportHitRate()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	r.hits.Add(1)
	r.reportHitRate()
	return true, nil
}

func (r *RedisCache) reportHitRate() {
	metrics.CacheHitRate.WithLabelValues("redis").Set(r.HitRate())
}

// Close закрывает соединение с Redis
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Ping проверяет доступность Redis
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// HitRate доля найденных результатов среди успешных поисков GetAnalysis
func (r *RedisCache) HitRate() float64 {
	hits, misses := r.hits.Load(), r.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// GetStats возвращает статистику Redis
func (r *RedisCache) GetStats() map[string]interface{} {
	stats := r.client.PoolStats()

	return map[string]interface{}{
		"result_hits":   r.hits.Load(),
		"result_misses": r.misses.Load(),
		"hit_rate":      r.HitRate(),
		"pool_hits":     stats.Hits,
		"pool_misses":   stats.Misses,
		"timeouts":      stats.Timeouts,
		"total_conns":   stats.TotalConns,
		"idle_conns":    stats.IdleConns,
		"stale_conns":   stats.StaleConns,
		"ttl_seconds":   r.ttl.Seconds(),
	}
}
