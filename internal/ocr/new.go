package ocr

import (
	"time"

	"github.com/nguyentantai21042004/narrate-flow/internal/httpx"
	"github.com/nguyentantai21042004/narrate-flow/internal/logger"
)

type implSummarizer struct {
	baseURL   string
	timeout   time.Duration
	requester httpx.Requester
	logger    logger.Logger
}

// New creates a Summarizer for the service at baseURL.
func New(baseURL string, timeout time.Duration, requester httpx.Requester, log logger.Logger) Summarizer {
	return &implSummarizer{
		baseURL:   baseURL,
		timeout:   timeout,
		requester: requester,
		logger:    log,
	}
}
