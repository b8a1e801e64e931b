package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	gerrors "github.com/gosc-lang/gosc/errors"
)

var red = color.New(color.FgRed).SprintFunc()

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// describeError renders compile errors in the diagnostic format and any
// other error as its message.
func describeError(err error) string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var formatted []*gerrors.FormattedError
		for _, e := range merr.Errors {
			ce, ok := gerrors.AsCompileError(e)
			if !ok {
				return err.Error()
			}
			formatted = append(formatted, ce.ToFormatted())
		}
		return gerrors.NewFormatter(!color.NoColor).FormatMultiple(formatted)
	}
	if ce, ok := gerrors.AsCompileError(err); ok {
		return gerrors.NewFormatter(!color.NoColor).Format(ce.ToFormatted())
	}
	return err.Error()
}

// input is what a command compiles: one file, or package patterns.
type input struct {
	filename string
	src      []byte
	patterns []string
}

func (in *input) isFile() bool { return in.patterns == nil }

// readInput determines the source to compile. There are three
// possibilities:
// 1. --code <code>
// 2. --stdin (read code from stdin)
// 3. args: a .go file, or package patterns such as ./...
func readInput(cmd *cobra.Command, args []string) (*input, error) {
	var codeFlagSet, stdinFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	if f := cmd.Flags().Lookup("stdin"); f != nil && f.Changed {
		stdinFlagSet = true
	}
	pathSupplied := len(args) > 0
	if pathSupplied && (codeFlagSet || stdinFlagSet) {
		return nil, errors.New("multiple input sources specified")
	} else if codeFlagSet && stdinFlagSet {
		return nil, errors.New("multiple input sources specified")
	}
	switch {
	case stdinFlagSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return &input{filename: "stdin.go", src: data}, nil
	case codeFlagSet:
		code, _ := cmd.Flags().GetString("code")
		return &input{filename: "code.go", src: []byte(code)}, nil
	case !pathSupplied:
		return nil, errors.New("no input provided")
	}
	if len(args) == 1 && strings.HasSuffix(args[0], ".go") {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, err
		}
		return &input{filename: args[0], src: data}, nil
	}
	return &input{patterns: args}, nil
}

// outputPath is the default image path for an input.
func outputPath(in *input) string {
	if in.isFile() && in.filename != "stdin.go" && in.filename != "code.go" {
		return strings.TrimSuffix(filepath.Base(in.filename), ".go") + ".gsc"
	}
	return "out.gsc"
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
