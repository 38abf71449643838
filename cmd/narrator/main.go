package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/nguyentantai21042004/narrate-flow/internal/calendar"
	"github.com/nguyentantai21042004/narrate-flow/internal/config"
	"github.com/nguyentantai21042004/narrate-flow/internal/errs"
	"github.com/nguyentantai21042004/narrate-flow/internal/httpx"
	"github.com/nguyentantai21042004/narrate-flow/internal/logger"
	"github.com/nguyentantai21042004/narrate-flow/internal/ocr"
	"github.com/nguyentantai21042004/narrate-flow/internal/player"
	"github.com/nguyentantai21042004/narrate-flow/internal/processor"
	"github.com/nguyentantai21042004/narrate-flow/internal/report"
	"github.com/nguyentantai21042004/narrate-flow/internal/tts"
	"github.com/nguyentantai21042004/narrate-flow/internal/watcher"
	"github.com/nguyentantai21042004/narrate-flow/pkg/executor"
)

type actionList []string

func (a *actionList) String() string { return strings.Join(*a, ", ") }

func (a *actionList) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		photo      = flag.String("photo", "", "process one document photo and exit")
		summary    = flag.String("summary", "", "narrate this summary and exit")
		detected   = flag.String("detected", "", "detected text used when -summary is empty")
		actions    actionList
	)
	flag.Var(&actions, "action", "next action to narrate (repeatable)")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "Narrate Flow on %s/%s", runtime.GOOS, runtime.GOARCH)
	if cfg.Service.BaseURL == "" {
		log.Warn(ctx, "service.base_url is empty; requests will fail until %s is set", config.EnvBaseURL)
	}

	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	// Initialize dependencies
	requester := httpx.New(nil)
	play := player.New(cfg.Player, cfg.Narration, executor.New(), log)
	proc := processor.New(cfg, processor.Deps{
		Summarizer: ocr.New(cfg.Service.BaseURL, cfg.Service.OCRTimeout, requester, log),
		Acquirer: tts.New(tts.Config{
			BaseURL:  cfg.Service.BaseURL,
			CacheDir: cfg.Paths.Cache,
			Timeout:  cfg.Service.TTSTimeout,
		}, requester, log),
		Reporter: report.New(cfg.Paths.Output, log),
		Calendar: calendar.New(cfg.Paths.Cache, log),
		Policy:   play.Policy(),
	}, log)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *photo != "":
		if err := proc.Process(ctx, *photo); err != nil {
			fail(err)
		}
	case *summary != "" || *detected != "":
		file, err := proc.Narrate(ctx, processor.Narration{
			Summary:      *summary,
			Actions:      actions,
			DetectedText: *detected,
		})
		if err != nil {
			fail(err)
		}
		fmt.Println(file.URI)
	default:
		if err := watch(ctx, cfg, proc, log); err != nil {
			log.Error(ctx, "Watcher error: %v", err)
			os.Exit(1)
		}
	}
}

func watch(ctx context.Context, cfg *config.Config, proc processor.Processor, log logger.Logger) error {
	w, err := watcher.New(cfg.Paths.Inbox, proc.Process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Narrate Flow is ready!")
	log.Info(ctx, "Inbox: %s", cfg.Paths.Inbox)
	log.Info(ctx, "Reports: %s", cfg.Paths.Output)
	log.Info(ctx, "Audio cache: %s", cfg.Paths.Cache)
	log.Info(ctx, "Auto play: %t (muted: %t)", cfg.Narration.AutoPlay, cfg.Narration.Muted)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	err = w.Start(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info(ctx, "Shutdown signal received, Narrate Flow stopped")
		return nil
	}
	return err
}

// fail prints a user-facing line for err and exits.
func fail(err error) {
	fmt.Fprintln(os.Stderr, describe(err))
	os.Exit(1)
}

func describe(err error) string {
	var cfgErr *errs.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return describeConfig(cfgErr)
	case errs.IsTimeout(err):
		return "요청 시간이 초과되었어요. 잠시 후 다시 시도해 주세요. (" + err.Error() + ")"
	case errs.Status(err) != 0:
		return fmt.Sprintf("서버 오류 (HTTP %d): %v", errs.Status(err), err)
	case errors.Is(err, processor.ErrNothingToNarrate):
		return "요약할 내용이 없습니다."
	case errors.Is(err, context.Canceled):
		return "작업이 취소되었어요."
	default:
		return err.Error()
	}
}

func describeConfig(err *errs.ConfigError) string {
	switch err.Key {
	case "service.base_url":
		return "서버 주소가 설정되지 않았습니다. API_URL을 확인해 주세요."
	case "paths.cache":
		return "캐시 폴더가 설정되지 않았습니다. config의 paths.cache를 확인해 주세요."
	default:
		return "설정을 확인해 주세요: " + err.Error()
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Inbox,
		cfg.Paths.Cache,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
