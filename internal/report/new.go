package report

import (
	"time"

	"github.com/nguyentantai21042004/narrate-flow/internal/logger"
)

type implWriter struct {
	outputDir string
	logger    logger.Logger
	now       func() time.Time
}

// New creates a Writer that stores reports in outputDir.
func New(outputDir string, log logger.Logger) Writer {
	return &implWriter{
		outputDir: outputDir,
		logger:    log,
		now:       time.Now,
	}
}
