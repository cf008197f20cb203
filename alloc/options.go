package alloc

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLargeAllocThreshold is the block size at or above which an
// allocation is logged.
const DefaultLargeAllocThreshold = 64 << 20

// Logger defines an interface for writing log messages.
//
// Fatalf must not return: allocation failures have no recovery path.
type Logger interface {
	Infof(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// DefaultLogger returns the logger the allocator starts with: a zap logger
// writing console-encoded lines to stderr.
func DefaultLogger() Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stderr),
		zap.InfoLevel,
	)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

type config struct {
	logger              Logger
	largeAllocThreshold uintptr
}

func defaultConfig() config {
	return config{
		logger:              DefaultLogger(),
		largeAllocThreshold: DefaultLargeAllocThreshold,
	}
}

// Option configures the global allocator. See Configure.
type Option func(*config)

// WithLogger routes allocator log output, including the fatal path, to l.
func WithLogger(l Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithLargeAllocThreshold sets the size in bytes at which allocations are
// logged. Zero disables the log line.
func WithLargeAllocThreshold(bytes uintptr) Option {
	return func(cfg *config) {
		cfg.largeAllocThreshold = bytes
	}
}

// Configure applies opts to the global allocator and returns a function that
// restores the previous configuration.
func Configure(opts ...Option) (restore func()) {
	global.mu.Lock()
	defer global.mu.Unlock()
	prev := global.cfg
	for _, opt := range opts {
		opt(&global.cfg)
	}
	return func() {
		global.mu.Lock()
		defer global.mu.Unlock()
		global.cfg = prev
	}
}
