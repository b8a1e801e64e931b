package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gosc-lang/gosc"
	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/internal/cache"
	"github.com/gosc-lang/gosc/internal/config"
)

// imageSuffix marks files that hold an encoded program rather than source.
const imageSuffix = ".gsc"

func (a *app) options() []gosc.Option {
	return []gosc.Option{
		gosc.WithEntryPoint(a.cfg.Entry),
		gosc.WithCaptureMode(a.cfg.Captures),
		gosc.WithLogger(a.log),
	}
}

// cacheKey identifies the image compiled from in. Sealed functions record
// the filename, and images from another build or layout must not be reused.
func cacheKey(cfg *config.Config, in *input) string {
	settings := append(cfg.Fingerprint(),
		"file="+in.filename,
		"image="+strconv.Itoa(bytecode.ImageVersion),
		"gosc="+version)
	return cache.Key(in.src, settings...)
}

// compile compiles in, consulting the compile cache when useCache is set
// and the input is a single file.
func (a *app) compile(ctx context.Context, in *input, useCache bool) (*bytecode.Program, error) {
	if !in.isFile() {
		return gosc.CompilePackages(ctx, in.patterns, a.options()...)
	}
	if !useCache {
		return gosc.Compile(ctx, in.filename, in.src, a.options()...)
	}

	c, err := cache.Open(a.cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	key := cacheKey(a.cfg, in)
	program, ok, err := c.Get(ctx, key)
	if err != nil {
		a.log.Warn().Err(err).Str("key", key).Msg("ignoring unreadable cache entry")
	} else if ok {
		a.log.Debug().Str("key", key).Str("id", program.ID()).Msg("cache hit")
		return program, nil
	}
	program, err = gosc.Compile(ctx, in.filename, in.src, a.options()...)
	if err != nil {
		return nil, err
	}
	if err := c.Put(ctx, key, program); err != nil {
		return nil, err
	}
	a.log.Debug().Str("key", key).Str("path", c.Path()).Msg("cached image")
	return program, nil
}

// programFor returns the program named by the command line: an image file
// is decoded, anything else is read by readInput and compiled.
func (a *app) programFor(cmd *cobra.Command, args []string) (*bytecode.Program, error) {
	if len(args) == 1 && strings.HasSuffix(args[0], imageSuffix) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, err
		}
		program, err := bytecode.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", args[0], err)
		}
		return program, nil
	}
	in, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	return a.compile(cmd.Context(), in, false)
}
