package tts

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/narrate-flow/internal/errs"
)

const (
	summaryPath = "/api/tts-summary"
	textPath    = "/api/tts"
)

// Strategy names, in ladder order.
const (
	StrategySummaryStream    = "summary-stream"
	StrategySummaryStreamGet = "summary-stream-get"
	StrategySummaryFetch     = "summary-fetch"
	StrategySummaryFetchGet  = "summary-fetch-get"
	StrategyTextStream       = "tts-stream"
	StrategyTextFetch        = "tts-fetch"
)

// strategy is one rung of the ladder. A nil guard means the rung always runs.
type strategy struct {
	name     string
	download Downloader
	request  DownloadRequest
	guard    func(st *ladderState) bool
}

type ladderState struct {
	lastErr error
	ran     map[string]bool
}

// ladder lists every strategy in the order they are tried.
func (a *implAcquirer) ladder(p SummaryPayload) []strategy {
	summaryPost := DownloadRequest{
		URL:          a.cfg.BaseURL + summaryPath,
		Method:       http.MethodPost,
		Body:         p.summaryForm(),
		Timeout:      a.cfg.Timeout,
		FallbackText: p.FallbackText,
	}
	textGet := DownloadRequest{
		URL:          textQueryURL(a.cfg.BaseURL+textPath, p.FallbackText),
		Method:       http.MethodGet,
		Timeout:      a.cfg.Timeout,
		FallbackText: p.FallbackText,
	}
	textPost := DownloadRequest{
		URL:          a.cfg.BaseURL + textPath,
		Method:       http.MethodPost,
		Body:         textForm(p.FallbackText),
		Timeout:      a.cfg.Timeout,
		FallbackText: p.FallbackText,
	}

	getAllowed := func(st *ladderState) bool {
		return p.FallbackText != "" && errs.IsMethodNotAllowed(st.lastErr)
	}

	return []strategy{
		{name: StrategySummaryStream, download: a.stream, request: summaryPost},
		{name: StrategySummaryStreamGet, download: a.stream, request: textGet, guard: getAllowed},
		{name: StrategySummaryFetch, download: a.fetch, request: summaryPost},
		{name: StrategySummaryFetchGet, download: a.fetch, request: textGet, guard: getAllowed},
		// The plain endpoint was already tried with GET on both transports.
		{name: StrategyTextStream, download: a.stream, request: textPost, guard: func(st *ladderState) bool {
			return !st.ran[StrategySummaryFetchGet]
		}},
		{name: StrategyTextFetch, download: a.fetch, request: textPost, guard: func(st *ladderState) bool {
			return st.ran[StrategyTextStream]
		}},
	}
}

// Acquire runs the ladder once, strictly in order. The error returned after
// exhaustion is the last attempt's error as-is.
func (a *implAcquirer) Acquire(ctx context.Context, payload SummaryPayload, policy PlayPolicy) (AudioFile, error) {
	if a.cfg.BaseURL == "" {
		return AudioFile{}, &errs.ConfigError{
			Key:     "service.base_url",
			Message: "server address is not set; set service.base_url or the API_URL environment variable",
		}
	}
	if a.cfg.CacheDir == "" {
		return AudioFile{}, &errs.ConfigError{Key: "paths.cache", Message: "cache directory is not set"}
	}

	dest, err := a.newCachePath()
	if err != nil {
		return AudioFile{}, err
	}

	st := &ladderState{ran: make(map[string]bool)}
	for _, s := range a.ladder(payload) {
		if s.guard != nil && !s.guard(st) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return AudioFile{}, err
		}

		a.logger.Debug(ctx, "TTS attempt %s: %s %s", s.name, s.request.Method, s.request.URL)

		size, err := s.download.Download(ctx, s.request, dest)
		st.ran[s.name] = true
		if err == nil {
			file := AudioFile{
				Path:     dest,
				URI:      "file://" + dest,
				Size:     size,
				Strategy: s.name,
			}
			a.logger.Info(ctx, "Narration ready via %s: %s (%d bytes)", s.name, file.URI, size)
			if policy != nil {
				policy(ctx, file)
			}
			return file, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return AudioFile{}, ctxErr
		}

		a.logger.Debug(ctx, "TTS attempt %s failed: %v", s.name, err)
		st.lastErr = err
	}

	return AudioFile{}, st.lastErr
}

// newCachePath returns an absolute, invocation-unique path in the cache directory.
func (a *implAcquirer) newCachePath() (string, error) {
	dir, err := filepath.Abs(a.cfg.CacheDir)
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	return filepath.Join(dir, "tts_"+uuid.NewString()+".mp3"), nil
}
