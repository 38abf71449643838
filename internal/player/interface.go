package player

import (
	"context"

	"github.com/nguyentantai21042004/narrate-flow/internal/tts"
)

// Player plays a local audio file.
type Player interface {
	Play(ctx context.Context, path string) error
	// Policy returns the play policy handed to the TTS pipeline.
	Policy() tts.PlayPolicy
}
