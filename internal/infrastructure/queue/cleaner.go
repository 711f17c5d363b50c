// Package queue runs image cleanup off the request path. Deletion is
// best-effort: failures are logged and counted, never surfaced to the
// operation that triggered them.
package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/feedboard/social-api/internal/api/metrics"
	"github.com/feedboard/social-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Cleaner routes deletion requests to a fixed set of workers sharded by path,
// so repeated requests for the same file stay ordered.
type Cleaner struct {
	workers []chan string
	store   ports.ImageStore
	log     zerolog.Logger
}

// NewCleaner creates a Cleaner with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCleaner(numWorkers int, store ports.ImageStore, log zerolog.Logger) *Cleaner {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	c := &Cleaner{
		workers: make([]chan string, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range c.workers {
		c.workers[i] = make(chan string, channelBuffer)
	}
	return c
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (c *Cleaner) Start(ctx context.Context) {
	for i, ch := range c.workers {
		go c.runWorker(ctx, i, ch)
	}
}

// Clear enqueues a deletion request without blocking the caller. When the
// shard buffer is full the request is dropped and logged; losing a cleanup
// only leaks one orphan file.
func (c *Cleaner) Clear(relPath string) {
	select {
	case c.workers[c.shardIndex(relPath)] <- relPath:
	default:
		c.log.Warn().Str("path", relPath).Msg("cleanup queue full, dropping request")
		metrics.ImageCleanupTotal.WithLabelValues("error").Inc()
	}
}

// shardIndex maps a path deterministically to a worker index.
func (c *Cleaner) shardIndex(relPath string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(relPath))
	return int(h.Sum32()) % len(c.workers)
}

func (c *Cleaner) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case relPath, ok := <-ch:
			if !ok {
				return
			}
			if err := c.store.Remove(relPath); err != nil {
				c.log.Warn().Err(err).
					Str("path", relPath).
					Int("worker_id", id).
					Msg("image cleanup failed")
				metrics.ImageCleanupTotal.WithLabelValues("error").Inc()
				continue
			}
			metrics.ImageCleanupTotal.WithLabelValues("ok").Inc()
		}
	}
}
