package main

import (
	"github.com/osse101/TerminalFarm_Go/internal/config"
	"github.com/osse101/TerminalFarm_Go/internal/logger"
)

// initLogger initializes the logger using the client configuration
func initLogger(cfg *config.Config) {
	// Source info only in dev
	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		cfg.IsDevelopment(),
	)

	logger.InitLogger(loggerConfig)
}
