package main

import (
	"github.com/spf13/cobra"

	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/ffi"
	"github.com/gosc-lang/gosc/internal/table"
)

func newNativesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "natives [file.go | file.gsc | packages]",
		Short: "List native members and the host routines they bind to",
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := a.programFor(cmd, args)
			if err != nil {
				return err
			}
			var manifest *ffi.Manifest
			if a.cfg.FFIManifest != "" {
				if manifest, err = ffi.LoadManifest(a.cfg.FFIManifest); err != nil {
					return err
				}
			}
			var rows [][]string
			for _, pkg := range program.Packages() {
				for i := 0; i < pkg.MemberCount(); i++ {
					member := pkg.MemberAt(i)
					if member.Kind() != bytecode.ValNative {
						continue
					}
					rows = append(rows, []string{pkg.Name(), pkg.MemberName(i), manifest.Routine(member.NativeName())})
				}
			}
			table.NewTable(cmd.OutOrStdout()).
				WithHeader([]string{"PACKAGE", "MEMBER", "ROUTINE"}).
				WithRows(rows).
				Render()
			return nil
		},
	}
}
