// Package logging initializes the process-wide logger.
package logging

import (
	"go.uber.org/zap"
)

// Logger is the shared sugared logger. Init must run before first use.
var Logger *zap.SugaredLogger

// Init builds the logger. Debug switches to the development config with
// everything enabled; otherwise only warnings and errors reach the console.
func Init(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		panic("logger init: " + err.Error())
	}
	Logger = logger.Sugar()
}

func init() {
	// A safe default so library consumers and tests never hit a nil logger.
	Logger = zap.NewNop().Sugar()
}
