package tts

import (
	"time"

	"github.com/nguyentantai21042004/narrate-flow/internal/httpx"
	"github.com/nguyentantai21042004/narrate-flow/internal/logger"
)

// Config locates the service and the cache directory.
type Config struct {
	BaseURL  string
	CacheDir string
	Timeout  time.Duration
}

type implAcquirer struct {
	cfg    Config
	stream Downloader
	fetch  Downloader
	logger logger.Logger
}

// New creates an Acquirer using the stream and fetch downloaders over requester.
func New(cfg Config, requester httpx.Requester, log logger.Logger) Acquirer {
	return NewWithDownloaders(cfg, NewStreamDownloader(requester), NewFetchDownloader(requester), log)
}

// NewWithDownloaders creates an Acquirer with explicit transports.
func NewWithDownloaders(cfg Config, stream, fetch Downloader, log logger.Logger) Acquirer {
	return &implAcquirer{
		cfg:    cfg,
		stream: stream,
		fetch:  fetch,
		logger: log,
	}
}
