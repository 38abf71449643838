package player

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/narrate-flow/internal/tts"
)

// Play runs "<binary> <args...> <path>".
func (p *implPlayer) Play(ctx context.Context, path string) error {
	if p.binary == "" {
		return fmt.Errorf("player.binary is not set")
	}

	args := append(append([]string{}, p.args...), path)
	if _, err := p.executor.Execute(ctx, p.binary, args...); err != nil {
		return fmt.Errorf("play %s: %w", path, err)
	}
	return nil
}

// Policy plays the file when auto play is on and narration is not muted.
// Playback failures are logged only.
func (p *implPlayer) Policy() tts.PlayPolicy {
	return func(ctx context.Context, file tts.AudioFile) {
		if !p.narration.AutoPlay || p.narration.Muted {
			p.logger.Debug(ctx, "Auto play skipped (auto_play=%t, muted=%t): %s",
				p.narration.AutoPlay, p.narration.Muted, file.URI)
			return
		}
		if p.binary == "" {
			p.logger.Warn(ctx, "Auto play is on but player.binary is not set")
			return
		}
		if err := p.Play(ctx, file.Path); err != nil {
			p.logger.Error(ctx, "Narration playback failed: %v", err)
		}
	}
}
