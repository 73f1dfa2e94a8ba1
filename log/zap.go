// Copyright 2022 The mirlo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger represents a zap logger implementation.
type ZapLogger struct {
	lg       *zap.Logger
	sgLogger *zap.SugaredLogger
}

// NewZapLogger creates an initialized zap logger instance.
func NewZapLogger(outputPath string) *ZapLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	outputPaths := []string{"/dev/stdout"}
	if len(outputPath) > 0 {
		outputPaths = append(outputPaths, outputPath)
	}
	cfg.OutputPaths = outputPaths

	logger, _ := cfg.Build()
	sugaredLogger := logger.Sugar()
	return &ZapLogger{
		lg:       logger,
		sgLogger: sugaredLogger,
	}
}

// Debugf uses fmt.Sprintf to log a `debug` templated message.
func (l *ZapLogger) Debugf(msg string, args ...interface{}) {
	l.sgLogger.Debugf(msg, args...)
}

// Debugw writes a 'debug' message to configured logger with some additional context.
func (l *ZapLogger) Debugw(msg string, keysAndValues ...interface{}) {
	l.sgLogger.Debugw(msg, keysAndValues...)
}

// Infof uses fmt.Sprintf to log an `info` templated message.
func (l *ZapLogger) Infof(msg string, args ...interface{}) {
	l.sgLogger.Infof(msg, args...)
}

// Infow writes a 'info' message to configured logger with some additional context.
func (l *ZapLogger) Infow(msg string, keysAndValues ...interface{}) {
	l.sgLogger.Infow(msg, keysAndValues...)
}

// Warnf uses fmt.Sprintf to log a `warn` templated message.
func (l *ZapLogger) Warnf(msg string, args ...interface{}) {
	l.sgLogger.Warnf(msg, args...)
}

// Warnw writes a 'warning' message to configured logger with some additional context.
func (l *ZapLogger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sgLogger.Warnw(msg, keysAndValues...)
}

// Errorf uses fmt.Sprintf to log an `error` templated message.
func (l *ZapLogger) Errorf(msg string, args ...interface{}) {
	l.sgLogger.Errorf(msg, args...)
}

// Errorw writes an 'error' message to configured logger with some additional context.
func (l *ZapLogger) Errorw(msg string, keysAndValues ...interface{}) {
	l.sgLogger.Errorw(msg, keysAndValues...)
}

// Fatalf uses fmt.Sprintf to log a `fatal` templated message.
func (l *ZapLogger) Fatalf(msg string, args ...interface{}) {
	l.sgLogger.Fatalf(msg, args...)
}

// Fatalw writes a 'fatal' message to configured logger with some additional context.
func (l *ZapLogger) Fatalw(msg string, keysAndValues ...interface{}) {
	l.sgLogger.Fatalw(msg, keysAndValues...)
}

// Sync flushes any buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.lg.Sync()
}
