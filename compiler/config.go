package compiler

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultEntryPoint is the name of the function that becomes a package's
// entry point when Config.EntryPoint is empty.
const DefaultEntryPoint = "main"

// CaptureMode selects how a reference to a variable of an enclosing function
// is turned into captured-variable descriptors.
type CaptureMode uint8

const (
	// CaptureChain gives every function between the owner of the variable
	// and the referencing function its own descriptor. Each descriptor names
	// the immediately enclosing function, so the engine always resolves it
	// against the activation that executes NEW_CLOSURE.
	CaptureChain CaptureMode = iota
	// CaptureDirect adds a single descriptor to the referencing function that
	// names the owning function and slot directly, skipping any function in
	// between.
	CaptureDirect
)

func (m CaptureMode) String() string {
	switch m {
	case CaptureChain:
		return "chain"
	case CaptureDirect:
		return "direct"
	default:
		return fmt.Sprintf("CaptureMode(%d)", uint8(m))
	}
}

// ParseCaptureMode parses "chain" or "direct".
func ParseCaptureMode(s string) (CaptureMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chain":
		return CaptureChain, nil
	case "direct":
		return CaptureDirect, nil
	default:
		return 0, fmt.Errorf("unknown capture mode %q (want chain or direct)", s)
	}
}

// Config holds compiler configuration options.
type Config struct {
	// EntryPoint is the name of the top-level function that becomes the
	// package's entry point. Defaults to "main".
	EntryPoint string

	// Captures selects the capture strategy for closures.
	Captures CaptureMode

	// Logger receives debug traces of builder and resolution activity.
	// Defaults to a disabled logger.
	Logger *zerolog.Logger

	// Source is the original source code, used for better error messages
	// when compiling a single file.
	Source string
}

func (cfg *Config) entryPoint() string {
	if cfg == nil || cfg.EntryPoint == "" {
		return DefaultEntryPoint
	}
	return cfg.EntryPoint
}

func (cfg *Config) logger() zerolog.Logger {
	if cfg == nil || cfg.Logger == nil {
		return zerolog.Nop()
	}
	return *cfg.Logger
}
