package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/narrate-flow/internal/calendar"
	"github.com/nguyentantai21042004/narrate-flow/internal/ocr"
	"github.com/nguyentantai21042004/narrate-flow/internal/report"
	"github.com/nguyentantai21042004/narrate-flow/internal/tts"
)

// Tag keys the summarizer uses for deadlines and dates, in priority order.
var dateTagKeys = []string{"기간/마감", "날짜"}

// Process orchestrates the document pipeline for one photo
func (p *implProcessor) Process(ctx context.Context, photoPath string) error {
	startTime := time.Now()
	name := strings.TrimSuffix(filepath.Base(photoPath), filepath.Ext(photoPath))

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting document: %s", photoPath)
	p.logger.Info(ctx, "========================================")

	// Step 1: OCR + summary
	result, err := p.summarizer.Summarize(ctx, photoPath)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	// Step 2: Report
	if p.reporter != nil {
		if _, err := p.reporter.Write(ctx, name, result); err != nil {
			p.logger.Warn(ctx, "Failed to write report: %v", err)
		}
	}

	// Step 3: Calendar event when the document carries a date
	if err := p.exportEvent(ctx, result); err != nil {
		p.logger.Warn(ctx, "Failed to export calendar event: %v", err)
	}

	// Step 4: Narration
	var audioErr error
	if text := fallbackText(result); text != "" {
		payload := tts.NewPayload(result.Bullets, result.NextActions, text)
		file, err := p.acquirer.Acquire(ctx, payload, p.policy)
		if err != nil {
			audioErr = fmt.Errorf("acquire audio: %w", err)
		} else {
			p.logger.Info(ctx, "Narration: %s", file.URI)
		}
	} else {
		p.logger.Warn(ctx, "Nothing to narrate for %s", photoPath)
	}

	// Step 5: Move photo to archived folder
	if err := p.moveToArchived(ctx, photoPath); err != nil {
		p.logger.Warn(ctx, "Failed to move photo to archived folder: %v", err)
	}

	if audioErr != nil {
		return audioErr
	}

	p.logger.Info(ctx, "Document done in %s: %s", time.Since(startTime), photoPath)
	return nil
}

// fallbackText is the joined bullets, or the detected text when there are none.
func fallbackText(result ocr.Result) string {
	if joined := strings.TrimSpace(strings.Join(result.Bullets, " ")); joined != "" {
		return joined
	}
	return strings.TrimSpace(result.DetectedText)
}

func (p *implProcessor) exportEvent(ctx context.Context, result ocr.Result) error {
	raw := result.FirstTag(dateTagKeys...)
	if raw == "" || p.calendar == nil {
		return nil
	}

	event := calendar.Event{Description: result.DetectedText}
	if len(result.Bullets) > 0 {
		event.Title = report.Title(result, "")
	}
	if start, ok := calendar.ParseDate(raw); ok {
		event.Start = start
	} else {
		p.logger.Debug(ctx, "Unrecognized date %q, using default start", raw)
	}

	_, err := p.calendar.Export(ctx, event)
	return err
}
