// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0
//

package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log         *zap.Logger
	AppLog      *zap.SugaredLogger
	InitLog     *zap.SugaredLogger
	ConfigLog   *zap.SugaredLogger
	GinLog      *zap.SugaredLogger
	DbLog       *zap.SugaredLogger
	RanLog      *zap.SugaredLogger
	EngineLog   *zap.SugaredLogger
	atomicLevel zap.AtomicLevel
)

func init() {
	atomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	config := zap.Config{
		Level:            atomicLevel,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""

	var err error
	log, err = config.Build()
	if err != nil {
		panic(err)
	}

	AppLog = log.Sugar().With("component", "SliceMgr", "category", "App")
	InitLog = log.Sugar().With("component", "SliceMgr", "category", "Init")
	ConfigLog = log.Sugar().With("component", "SliceMgr", "category", "CONFIG")
	GinLog = log.Sugar().With("component", "SliceMgr", "category", "GIN")
	DbLog = log.Sugar().With("component", "SliceMgr", "category", "DB")
	RanLog = log.Sugar().With("component", "SliceMgr", "category", "RAN")
	EngineLog = log.Sugar().With("component", "SliceMgr", "category", "Engine")
}

func GetLogger() *zap.Logger {
	return log
}

// SetLogLevel: set the log level (panic|fatal|error|warn|info|debug)
func SetLogLevel(level zapcore.Level) {
	InitLog.Infoln("set log level:", level)
	atomicLevel.SetLevel(level)
}
