package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gosc-lang/gosc/dis"
)

func newDisCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file.go | file.gsc | packages]",
		Short: "Disassemble a program",
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := a.programFor(cmd, args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			funcName, _ := cmd.Flags().GetString("func")
			if funcName == "" {
				return dis.PrintProgram(program, w)
			}
			for _, fn := range program.Functions() {
				if fn.Name() == funcName {
					return dis.PrintFunction(program, fn, w)
				}
			}
			return fmt.Errorf("function %q not found", funcName)
		},
	}
	cmd.Flags().StringP("code", "c", "", "source code to disassemble")
	cmd.Flags().Bool("stdin", false, "read source code from stdin")
	cmd.Flags().String("func", "", "function to disassemble")
	return cmd
}
