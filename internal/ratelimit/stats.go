package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsRecorder registra decisiones del limitador para observabilidad
type StatsRecorder interface {
	Record(ctx context.Context, route string, allowed bool) error
}

// RedisStats acumula contadores diarios por ruta en un hash de Redis:
//
//	ratelimit:stats:{YYYY-MM-DD} -> {route}:allowed / {route}:denied
//
// Solo estadística: la decisión siempre la toma el Limiter en memoria.
type RedisStats struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStats crea el recorder a partir de REDIS_URL
func NewRedisStats(redisURL string) (*RedisStats, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: REDIS_URL inválida: %w", err)
	}
	return NewRedisStatsWithClient(redis.NewClient(opts)), nil
}

// NewRedisStatsWithClient usa un cliente existente
func NewRedisStatsWithClient(client *redis.Client) *RedisStats {
	return &RedisStats{
		client: client,
		prefix: "ratelimit:stats:",
		ttl:    7 * 24 * time.Hour,
		now:    time.Now,
	}
}

// Key retorna el hash del día indicado
func (s *RedisStats) Key(day time.Time) string {
	return s.prefix + day.UTC().Format("2006-01-02")
}

func (s *RedisStats) Record(ctx context.Context, route string, allowed bool) error {
	field := route + ":allowed"
	if !allowed {
		field = route + ":denied"
	}
	key := s.Key(s.now())

	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, field, 1)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Snapshot retorna los contadores del día
func (s *RedisStats) Snapshot(ctx context.Context, day time.Time) (map[string]string, error) {
	return s.client.HGetAll(ctx, s.Key(day)).Result()
}

// Ping verifica la conexión
func (s *RedisStats) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close cierra el cliente
func (s *RedisStats) Close() error {
	return s.client.Close()
}
