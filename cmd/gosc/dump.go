package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gosc-lang/gosc/bytecode"
)

var outputFormatsCompletion = []string{"json", "yaml"}

func newDumpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [file.go | file.gsc | packages]",
		Short: "Print a program image as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := a.programFor(cmd, args)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("output")
			out, err := dumpProgram(program, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(string(out), "\n"))
			return nil
		},
	}
	cmd.Flags().StringP("code", "c", "", "source code to compile")
	cmd.Flags().Bool("stdin", false, "read source code from stdin")
	cmd.Flags().StringP("output", "o", "json", "output format: json or yaml")
	cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func dumpProgram(program *bytecode.Program, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		if color.NoColor {
			return json.MarshalIndent(program, "", "  ")
		}
		return prettyjson.Marshal(program)
	case "yaml":
		return yaml.Marshal(program)
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}
