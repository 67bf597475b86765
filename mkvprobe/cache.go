package mkvprobe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/ansel1/merry/v2"
	"go.uber.org/zap"

	"mkvmux/internal/logging"
	"mkvmux/models"
)

// CachedProber memoizes another Prober. Entries are keyed by absolute path,
// modification time and size, so a rewritten file is identified again.
type CachedProber struct {
	next   Prober
	ttl    time.Duration
	store  *cache.Cache[string, *Result]
	logger *zap.Logger
}

// NewCachedProber wraps next. A non-positive ttl keeps entries until the
// process exits.
func NewCachedProber(next Prober, ttl time.Duration, logger *zap.Logger) *CachedProber {
	return &CachedProber{
		next:   next,
		ttl:    ttl,
		store:  cache.New[string, *Result](),
		logger: logging.Component(logger, "probe-cache"),
	}
}

// Identify returns a cached result for path or delegates to the wrapped prober.
func (c *CachedProber) Identify(ctx context.Context, path string) (*Result, error) {
	key, err := cacheKey(path)
	if err != nil {
		return nil, err
	}

	if result, ok := c.store.Get(key); ok {
		c.logger.Debug("probe cache hit", zap.String("path", path))
		return result, nil
	}

	result, err := c.next.Identify(ctx, path)
	if err != nil {
		return nil, err
	}

	if c.ttl > 0 {
		c.store.Set(key, result, cache.WithExpiration(c.ttl))
	} else {
		c.store.Set(key, result)
	}
	return result, nil
}

// Len returns the number of cached entries.
func (c *CachedProber) Len() int {
	return len(c.store.Keys())
}

func cacheKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", merry.Wrap(models.ErrNotFound, merry.WithCause(err), merry.WithMessagef("stat %s: %v", path, err))
	}
	return fmt.Sprintf("%s|%d|%d", abs, info.ModTime().UnixNano(), info.Size()), nil
}
