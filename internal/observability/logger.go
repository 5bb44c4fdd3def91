package observability

import "github.com/ops4go/phacts/internal/logger"

// Package-level cached logger instance for efficiency.
var log = logger.Global().Module("metrics")

// promLogAdapter routes promhttp handler errors to the package logger.
type promLogAdapter struct{}

func (promLogAdapter) Println(v ...any) {
	log.Error("metrics handler error", logger.Any("detail", v))
}
