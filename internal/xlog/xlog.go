// Package xlog reproduces the teacher's own logging call convention —
// log.NewModuleLogger(log.<Module>) handing back a logger used as
// logger.Info(msg, "key", value, ...) — on top of zap, since the
// teacher's own "log" package (a log15 wrapper) wasn't itself part of
// the retrieved source.
package xlog

import (
	"go.uber.org/zap"
)

// Module names mirror the teacher's log.Common / log.API constants.
const (
	Chain   = "chain"
	Mempool = "mempool"
	Miner   = "miner"
	Network = "netsrv"
	API     = "api"
	Wire    = "wire"
)

var base *zap.Logger

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"
	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	base = l
}

// Logger is the per-module handle returned by NewModuleLogger.
type Logger struct {
	sugar  *zap.SugaredLogger
	module string
}

// NewModuleLogger returns a logger tagged with module, matching the
// teacher's log.NewModuleLogger(log.Miner) idiom.
func NewModuleLogger(module string) *Logger {
	return &Logger{sugar: base.Sugar().With("module", module), module: module}
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.sugar.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})   { l.sugar.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})   { l.sugar.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{})  { l.sugar.Errorw(msg, kv...) }

// Sync flushes buffered log entries; call before process exit.
func Sync() {
	_ = base.Sync()
}
