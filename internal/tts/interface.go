package tts

import "context"

// Acquirer turns a summary into a locally playable audio file.
type Acquirer interface {
	// Acquire walks the strategy ladder until one strategy saves the audio.
	// policy, when non-nil, is invoked once with the ready file.
	Acquire(ctx context.Context, payload SummaryPayload, policy PlayPolicy) (AudioFile, error)
}

// Downloader performs one attempt: it issues the request and persists a
// 200 response body at dest, returning the number of bytes written.
// On failure dest is left absent.
type Downloader interface {
	Download(ctx context.Context, req DownloadRequest, dest string) (int64, error)
}

// PlayPolicy decides what happens with a ready audio file.
type PlayPolicy func(ctx context.Context, file AudioFile)
