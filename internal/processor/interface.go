package processor

import (
	"context"

	"github.com/nguyentantai21042004/narrate-flow/internal/tts"
)

// Processor turns documents into summaries and narrations.
type Processor interface {
	// Process handles one document photo end to end.
	Process(ctx context.Context, photoPath string) error
	// Narrate produces audio for an already known summary.
	Narrate(ctx context.Context, n Narration) (tts.AudioFile, error)
}

// Narration is a summary supplied by the caller instead of a photo.
type Narration struct {
	Summary      string
	Actions      []string
	DetectedText string
}
