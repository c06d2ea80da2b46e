package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eslbridge/sign-translator/internal/logger"
)

const defaultCachePrefix = "esl:emb:"

// Cached is a read-through Redis cache in front of another Embedder. Redis
// failures are logged and fall back to the wrapped embedder.
type Cached struct {
	next   Embedder
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    *logger.Logger
}

func NewCached(next Embedder, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Cached {
	if log == nil {
		log = logger.Nop()
	}
	return &Cached{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		prefix: defaultCachePrefix,
		log:    log.With("service", "embeddings.Cached"),
	}
}

// ConnectRedis opens a client and verifies it with PING.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (c *Cached) Model() string { return c.next.Model() }

func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if vec, derr := decodeVector(raw); derr == nil {
			return vec, nil
		}
		c.log.Warn("dropping corrupt cached embedding", "key", key)
	case !errors.Is(err, redis.Nil):
		c.log.Warn("embedding cache read failed", "error", err)
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.rdb.Set(ctx, key, encodeVector(vec), c.ttl).Err(); err != nil {
		c.log.Warn("embedding cache write failed", "error", err)
	}
	return vec, nil
}

func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = c.key(t)
	}

	out := make([][]float32, len(texts))
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.Warn("embedding cache read failed", "error", err)
		vals = nil
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if vec, derr := decodeVector([]byte(s)); derr == nil {
			out[i] = vec
		}
	}

	var missIdx []int
	var missTexts []string
	for i, vec := range out {
		if vec == nil {
			missIdx = append(missIdx, i)
			missTexts = append(missTexts, texts[i])
		}
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	fresh, err := c.next.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d inputs", len(fresh), len(missTexts))
	}

	pipe := c.rdb.Pipeline()
	for j, i := range missIdx {
		out[i] = fresh[j]
		pipe.Set(ctx, keys[i], encodeVector(fresh[j]), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("embedding cache write failed", "error", err)
	}
	return out, nil
}

func (c *Cached) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + c.next.Model() + ":" + hex.EncodeToString(sum[:])
}

// encodeVector stores float32 bits little-endian so cached vectors are
// returned bit-identical.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil, fmt.Errorf("cached embedding has invalid length %d", len(raw))
	}
	vec := make([]float32, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return vec, nil
}
