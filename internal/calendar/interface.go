package calendar

import (
	"context"
	"time"
)

// Event is a single calendar entry.
type Event struct {
	Start       time.Time
	End         time.Time
	Title       string
	Description string
}

// Exporter writes events as .ics files.
type Exporter interface {
	Export(ctx context.Context, event Event) (string, error)
}
