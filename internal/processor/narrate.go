package processor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/narrate-flow/internal/tts"
)

// ErrNothingToNarrate is returned when neither a summary nor detected text is given.
var ErrNothingToNarrate = errors.New("nothing to narrate")

var reSlash = regexp.MustCompile(`\s*/\s*`)

// Narrate reads a caller-supplied summary aloud.
func (p *implProcessor) Narrate(ctx context.Context, n Narration) (tts.AudioFile, error) {
	summary := cleanSummary(n.Summary)

	text := summary
	if text == "" {
		text = strings.TrimSpace(n.DetectedText)
	}
	if text == "" {
		return tts.AudioFile{}, ErrNothingToNarrate
	}

	var bullets []string
	if summary != "" {
		bullets = []string{summary}
	}

	file, err := p.acquirer.Acquire(ctx, tts.NewPayload(bullets, n.Actions, text), p.policy)
	if err != nil {
		return tts.AudioFile{}, fmt.Errorf("acquire audio: %w", err)
	}
	return file, nil
}

// cleanSummary turns "a / b" separators into spaces.
func cleanSummary(s string) string {
	return strings.TrimSpace(reSlash.ReplaceAllString(s, " "))
}
