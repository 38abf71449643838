package processor

import (
	"github.com/nguyentantai21042004/narrate-flow/internal/calendar"
	"github.com/nguyentantai21042004/narrate-flow/internal/config"
	"github.com/nguyentantai21042004/narrate-flow/internal/logger"
	"github.com/nguyentantai21042004/narrate-flow/internal/ocr"
	"github.com/nguyentantai21042004/narrate-flow/internal/report"
	"github.com/nguyentantai21042004/narrate-flow/internal/tts"
)

type implProcessor struct {
	cfg        *config.Config
	summarizer ocr.Summarizer
	acquirer   tts.Acquirer
	reporter   report.Writer
	calendar   calendar.Exporter
	policy     tts.PlayPolicy
	logger     logger.Logger
}

// Deps are the collaborators a Processor drives.
type Deps struct {
	Summarizer ocr.Summarizer
	Acquirer   tts.Acquirer
	Reporter   report.Writer
	Calendar   calendar.Exporter
	Policy     tts.PlayPolicy
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps, log logger.Logger) Processor {
	return &implProcessor{
		cfg:        cfg,
		summarizer: deps.Summarizer,
		acquirer:   deps.Acquirer,
		reporter:   deps.Reporter,
		calendar:   deps.Calendar,
		policy:     deps.Policy,
		logger:     log,
	}
}
