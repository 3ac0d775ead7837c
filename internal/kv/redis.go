package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisClient implements Client on top of github.com/redis/go-redis/v9.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient dials a Redis instance from a connection URL of the
// form redis://[:password@]host:port/db (the shape of the configured
// "redis_url" field, §6).
func NewRedisClient(url string) (*RedisClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisClient{rdb: redis.NewClient(opts)}, nil
}

func (c *RedisClient) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisClient) Set(ctx context.Context, key, value []byte) error {
	return c.rdb.Set(ctx, string(key), value, 0).Err()
}

func (c *RedisClient) Exists(ctx context.Context, key []byte) (bool, error) {
	n, err := c.rdb.Exists(ctx, string(key)).Result()
	return n > 0, err
}

func (c *RedisClient) SAdd(ctx context.Context, key []byte, members ...[]byte) error {
	if len(members) == 0 {
		return nil
	}
	return c.rdb.SAdd(ctx, string(key), toAny(members)...).Err()
}

func (c *RedisClient) SRem(ctx context.Context, key []byte, members ...[]byte) error {
	if len(members) == 0 {
		return nil
	}
	return c.rdb.SRem(ctx, string(key), toAny(members)...).Err()
}

func (c *RedisClient) SMembers(ctx context.Context, key []byte) ([][]byte, error) {
	vals, err := c.rdb.SMembers(ctx, string(key)).Result()
	if err != nil {
		return nil, err
	}
	return toBytesSlice(vals), nil
}

func (c *RedisClient) SCard(ctx context.Context, key []byte) (int64, error) {
	return c.rdb.SCard(ctx, string(key)).Result()
}

func (c *RedisClient) SUnion(ctx context.Context, keys ...[]byte) ([][]byte, error) {
	strKeys := make([]string, len(keys))
	for i, k := range keys {
		strKeys[i] = string(k)
	}
	vals, err := c.rdb.SUnion(ctx, strKeys...).Result()
	if err != nil {
		return nil, err
	}
	return toBytesSlice(vals), nil
}

func (c *RedisClient) SIsMember(ctx context.Context, key, member []byte) (bool, error) {
	return c.rdb.SIsMember(ctx, string(key), member).Result()
}

func (c *RedisClient) LPush(ctx context.Context, key []byte, value []byte) error {
	return c.rdb.LPush(ctx, string(key), value).Err()
}

func (c *RedisClient) RPop(ctx context.Context, key []byte) ([]byte, bool, error) {
	val, err := c.rdb.RPop(ctx, string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisClient) LIndex(ctx context.Context, key []byte, index int64) ([]byte, bool, error) {
	val, err := c.rdb.LIndex(ctx, string(key), index).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisClient) LRem(ctx context.Context, key []byte, count int64, value []byte) error {
	return c.rdb.LRem(ctx, string(key), count, value).Err()
}

func (c *RedisClient) LRange(ctx context.Context, key []byte, start, stop int64) ([][]byte, error) {
	vals, err := c.rdb.LRange(ctx, string(key), start, stop).Result()
	if err != nil {
		return nil, err
	}
	return toBytesSlice(vals), nil
}

func (c *RedisClient) LLen(ctx context.Context, key []byte) (int64, error) {
	return c.rdb.LLen(ctx, string(key)).Result()
}

func (c *RedisClient) Pipeline(ctx context.Context, fn func(Batch) error) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return fn(&redisBatch{pipe: pipe, ctx: ctx})
	})
	return err
}

func (c *RedisClient) Close() error {
	return c.rdb.Close()
}

// redisBatch adapts a redis.Pipeliner to the Batch interface. Commands
// queued on it are only sent once Pipeline's TxPipelined call commits,
// giving the atomic-execute primitive §4.2 step 3 requires.
type redisBatch struct {
	pipe redis.Pipeliner
	ctx  context.Context
}

func (b *redisBatch) Set(key, value []byte) {
	b.pipe.Set(b.ctx, string(key), value, 0)
}

func (b *redisBatch) SAdd(key []byte, members ...[]byte) {
	if len(members) == 0 {
		return
	}
	b.pipe.SAdd(b.ctx, string(key), toAny(members)...)
}

func toAny(members [][]byte) []any {
	out := make([]any, len(members))
	for i, m := range members {
		out[i] = m
	}
	return out
}

func toBytesSlice(vals []string) [][]byte {
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out
}
