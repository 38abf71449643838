package report

import (
	"context"

	"github.com/nguyentantai21042004/narrate-flow/internal/ocr"
)

// Paths are the files written for one document.
type Paths struct {
	Markdown string
	Docx     string
}

// Writer renders a summary result as Markdown and docx reports.
type Writer interface {
	Write(ctx context.Context, name string, result ocr.Result) (Paths, error)
}
