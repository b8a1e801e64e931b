package gosc

import (
	"github.com/rs/zerolog"

	"github.com/gosc-lang/gosc/compiler"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	entryPoint string
	captures   compiler.CaptureMode
	logger     *zerolog.Logger
	dir        string
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerConfig(src []byte) *compiler.Config {
	return &compiler.Config{
		EntryPoint: o.entryPoint,
		Captures:   o.captures,
		Logger:     o.logger,
		Source:     string(src),
	}
}

// WithEntryPoint sets the name of the function that becomes a package's
// entry point. The default is "main".
func WithEntryPoint(name string) Option {
	return func(o *options) {
		o.entryPoint = name
	}
}

// WithCaptureMode selects how closures reference variables of enclosing
// functions. The default is compiler.CaptureChain.
func WithCaptureMode(mode compiler.CaptureMode) Option {
	return func(o *options) {
		o.captures = mode
	}
}

// WithLogger sends debug traces of the front end and the compiler to
// logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithDir sets the directory package patterns are resolved against. The
// default is the current directory.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}
