package logger

import (
	"fmt"

	"github.com/Leopold1975/emoji_best/internal/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.SugaredLogger
}

func New(cfg config.Logger) (Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return Logger{}, fmt.Errorf("parse level error: %w", err)
	}

	output := cfg.Output
	if len(output) == 0 {
		output = []string{"stdout"}
	}

	errOutput := cfg.ErrOutput
	if len(errOutput) == 0 {
		errOutput = []string{"stderr"}
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = output
	zcfg.ErrorOutputPaths = errOutput
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zcfg.Build()
	if err != nil {
		return Logger{}, fmt.Errorf("build zap logger error: %w", err)
	}

	return Logger{l.Sugar()}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return Logger{zap.NewNop().Sugar()}
}
