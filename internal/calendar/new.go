package calendar

import (
	"time"

	"github.com/nguyentantai21042004/narrate-flow/internal/logger"
)

type implExporter struct {
	cacheDir string
	logger   logger.Logger
	now      func() time.Time
}

// New creates an Exporter writing into cacheDir.
func New(cacheDir string, log logger.Logger) Exporter {
	return &implExporter{
		cacheDir: cacheDir,
		logger:   log,
		now:      time.Now,
	}
}
