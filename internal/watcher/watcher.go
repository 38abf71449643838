package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/narrate-flow/internal/logger"
	"github.com/panjf2000/ants/v2"
)

var supportedFormats = []string{".jpg", ".jpeg", ".png"}

type implWatcher struct {
	inboxDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	pool          *ants.Pool
	maxConcurrent int
	settleDelay   time.Duration
	wg            sync.WaitGroup
}

// Start begins monitoring the inbox for new document photos
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inboxDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(supportedFormats, ", "))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isImageFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-image file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New photo detected: %s", event.Name)

			// Small delay to ensure file is fully written
			select {
			case <-time.After(w.settleDelay):
			case <-ctx.Done():
				continue
			}

			w.submit(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// submit blocks while the pool is saturated.
func (w *implWatcher) submit(ctx context.Context, filePath string) {
	w.wg.Add(1)
	err := w.pool.Submit(func() {
		defer w.wg.Done()
		if err := w.handler(ctx, filePath); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", filePath, err)
		}
	})
	if err != nil {
		w.wg.Done()
		w.logger.Error(ctx, "Failed to schedule %s: %v", filePath, err)
	}
}

// Stop closes the file watcher and releases the worker pool
func (w *implWatcher) Stop() error {
	err := w.watcher.Close()
	w.pool.Release()
	return err
}

// isImageFile checks if the file has a supported photo extension
func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}
