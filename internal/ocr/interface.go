package ocr

import "context"

// Summarizer uploads a document photo and returns the recognized text and summary.
type Summarizer interface {
	Summarize(ctx context.Context, photoPath string) (Result, error)
}
