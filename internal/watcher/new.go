package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/narrate-flow/internal/logger"
	"github.com/panjf2000/ants/v2"
)

const defaultSettleDelay = 500 * time.Millisecond

// New creates a new Watcher instance with concurrency control
func New(inboxDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	pool, err := ants.NewPool(maxConcurrent, ants.WithPanicHandler(func(p interface{}) {
		log.Error(context.Background(), "Panic in document handler: %v", p)
	}))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		pool.Release()
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inboxDir); err != nil {
		watcher.Close()
		pool.Release()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inboxDir:      inboxDir,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		pool:          pool,
		maxConcurrent: maxConcurrent,
		settleDelay:   defaultSettleDelay,
	}, nil
}
