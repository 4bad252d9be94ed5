package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Backend on a Redis server. Every key is namespaced
// under Prefix so several profiles can share one database.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

const redisUpdatedKey = "__updated_at"

// OpenRedis connects to the server at rawURL (redis://host:port/db) and
// pings it before returning.
func OpenRedis(ctx context.Context, rawURL, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, prefix), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

// Get returns the value stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key with no expiry.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(key), value, 0)
		p.Set(ctx, s.key(redisUpdatedKey), s.now().UTC().Format(time.RFC3339), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Keys lists keys under the prefix in lexical order, without the prefix.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		k := strings.TrimPrefix(iter.Val(), s.prefix)
		if k == redisUpdatedKey {
			continue
		}
		keys = append(keys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	sort.Strings(keys)
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// PurgeAll deletes every key under the prefix.
func (s *RedisStore) PurgeAll(ctx context.Context) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return err
	}
	full := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		full = append(full, s.key(k))
	}
	full = append(full, s.key(redisUpdatedKey))
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	return nil
}

// GetStats reports key counts and sizes under the prefix.
func (s *RedisStore) GetStats(ctx context.Context) (*Stats, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Stats{Backend: "redis", TotalKeys: int64(len(keys))}

	for _, k := range keys {
		n, err := s.client.StrLen(ctx, s.key(k)).Result()
		if err != nil {
			return nil, fmt.Errorf("strlen %s: %w", k, err)
		}
		stats.TotalBytes += n
		stats.Keys = append(stats.Keys, KeySize{Key: k, Bytes: n})
	}
	sort.SliceStable(stats.Keys, func(i, j int) bool { return stats.Keys[i].Bytes > stats.Keys[j].Bytes })
	if len(stats.Keys) > 10 {
		stats.Keys = stats.Keys[:10]
	}

	if ts, err := s.client.Get(ctx, s.key(redisUpdatedKey)).Result(); err == nil {
		stats.LastUpdated, _ = time.Parse(time.RFC3339, ts)
	}
	return stats, nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
