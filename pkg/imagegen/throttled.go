package imagegen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/charmbracelet/log"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"parsverse/pkg/metrics"
)

// Throttled paces calls to an image backend, reuses finished images for
// identical requests and collapses concurrent identical requests into one call.
type Throttled struct {
	next    Generator
	limiter *rate.Limiter
	cache   *cache.Cache
	group   singleflight.Group
}

// NewThrottled wraps next. A zero interval disables pacing and a zero ttl
// disables the image cache.
func NewThrottled(next Generator, interval, ttl time.Duration) *Throttled {
	t := &Throttled{next: next}
	if interval > 0 {
		t.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	if ttl > 0 {
		t.cache = cache.New(ttl, 2*ttl)
	}
	return t
}

func (t *Throttled) Backend() Backend { return t.next.Backend() }

func (t *Throttled) Generate(ctx context.Context, prompt, negative, size string) []byte {
	provider := t.next.Backend().Provider
	key := cacheKey(prompt, negative, size)
	if data, ok := t.lookup(key); ok {
		metrics.ImageRequests.WithLabelValues(provider, "cached").Inc()
		return data
	}

	val, _, shared := t.group.Do(key, func() (any, error) {
		if data, ok := t.lookup(key); ok {
			return data, nil
		}
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				log.Warn("image request abandoned while waiting for rate limit", "error", err)
				return []byte(nil), nil
			}
		}
		data := t.next.Generate(ctx, prompt, negative, size)
		if len(data) > 0 && t.cache != nil {
			t.cache.SetDefault(key, data)
		}
		return data, nil
	})
	if shared {
		metrics.ImageRequests.WithLabelValues(provider, "shared").Inc()
	}
	data, _ := val.([]byte)
	return data
}

func (t *Throttled) lookup(key string) ([]byte, bool) {
	if t.cache == nil {
		return nil, false
	}
	v, ok := t.cache.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

func cacheKey(prompt, negative, size string) string {
	h := sha256.New()
	for _, s := range []string{prompt, negative, size} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
