package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gosc-lang/gosc/bytecode"
)

func newBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [file.go | packages]",
		Short: "Compile source into a program image",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			useCache, _ := cmd.Flags().GetBool("cache")
			program, err := a.compile(cmd.Context(), in, useCache)
			if err != nil {
				return err
			}
			image, err := bytecode.Marshal(program)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("output")
			if out == "" {
				out = outputPath(in)
			}
			if err := os.WriteFile(out, image, 0o644); err != nil {
				return err
			}
			stats := program.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %s, %d bytes)\n",
				out, plural(stats.FunctionCount, "function"),
				plural(stats.InstructionCount, "instruction"), len(image))
			return nil
		},
	}
	cmd.Flags().StringP("code", "c", "", "source code to compile")
	cmd.Flags().Bool("stdin", false, "read source code from stdin")
	cmd.Flags().StringP("output", "o", "", "image file to write (default is the input name with a .gsc suffix)")
	cmd.Flags().Bool("cache", false, "reuse images from the compile cache")
	return cmd
}
