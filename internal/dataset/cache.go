package dataset

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"sza-server/internal/frame"
)

// Cache memoizes the dataset frame for the life of the process. Concurrent
// first callers share a single Load; a failed Load is not remembered, so the
// next Get tries again.
type Cache struct {
	source Source
	logger *slog.Logger

	group singleflight.Group
	value atomic.Pointer[frame.Frame]
	loads atomic.Int64
}

func NewCache(source Source, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{source: source, logger: logger}
}

// Get returns the cached frame, loading it on first use. The returned frame is
// shared and must be treated as read-only.
func (c *Cache) Get(ctx context.Context) (*frame.Frame, error) {
	if f := c.value.Load(); f != nil {
		return f, nil
	}

	ch := c.group.DoChan("dataset", func() (any, error) {
		if f := c.value.Load(); f != nil {
			return f, nil
		}
		start := time.Now()
		c.loads.Add(1)
		// Detached so one caller giving up does not fail the others.
		records, err := c.source.Load(context.WithoutCancel(ctx))
		if err != nil {
			c.logger.Error("dataset load failed", "source", c.source.Name(), "error", err)
			return nil, err
		}
		f := ToFrame(records)
		c.value.Store(f)
		c.logger.Info("dataset loaded",
			"source", c.source.Name(),
			"rows", f.Len(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return f, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*frame.Frame), nil
	}
}

// Loads reports how many times the source has been read.
func (c *Cache) Loads() int64 {
	return c.loads.Load()
}
