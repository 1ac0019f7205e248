package main

import (
	"fmt"
	"os"

	"github.com/absfs/foldercrypt"
	"github.com/btcsuite/btclog"
)

// backendLog is the logging backend used to create all subsystem loggers.
var backendLog = btclog.NewBackend(os.Stderr)

var (
	log      = backendLog.Logger("MAIN")
	cryptLog = backendLog.Logger("FCRY")
)

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"MAIN": log,
	"FCRY": cryptLog,
}

func init() {
	foldercrypt.UseLogger(cryptLog)
}

// setLogLevels sets the logging level for all subsystems.
func setLogLevels(level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("invalid log level %q", level)
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(lvl)
	}
	return nil
}
