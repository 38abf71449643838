package player

import (
	"github.com/nguyentantai21042004/narrate-flow/internal/config"
	"github.com/nguyentantai21042004/narrate-flow/internal/logger"
	"github.com/nguyentantai21042004/narrate-flow/pkg/executor"
)

type implPlayer struct {
	binary    string
	args      []string
	narration config.NarrationConfig
	executor  executor.Executor
	logger    logger.Logger
}

// New creates a Player running the configured binary through exec.
func New(cfg config.PlayerConfig, narration config.NarrationConfig, exec executor.Executor, log logger.Logger) Player {
	return &implPlayer{
		binary:    cfg.Binary,
		args:      cfg.Args,
		narration: narration,
		executor:  exec,
		logger:    log,
	}
}
