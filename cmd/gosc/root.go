package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gosc-lang/gosc/internal/config"
)

// app is the state shared by every command of one invocation.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}
	cmd := &cobra.Command{
		Use:           "gosc",
		Short:         "Compile Go source into bytecode images",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default is gosc.toml or gosc.yaml in the working directory)")
	flags.String(config.KeyEntry, "", "name of the entry point function")
	flags.String(config.KeyCaptures, "", "capture strategy for closures: chain or direct")
	flags.String(config.KeyLogLevel, "", "log level: trace, debug, info, warn or error")
	flags.String(config.KeyColor, "", "colored output: auto, always or never")
	flags.String("cache-dir", "", "directory of the compile cache")
	flags.String("ffi-manifest", "", "TOML file mapping native members to host routines")
	flags.Bool("no-color", false, "disable colored output")

	bind := map[string]string{
		config.KeyEntry:       config.KeyEntry,
		config.KeyCaptures:    config.KeyCaptures,
		config.KeyLogLevel:    config.KeyLogLevel,
		config.KeyColor:       config.KeyColor,
		config.KeyCacheDir:    "cache-dir",
		config.KeyFFIManifest: "ffi-manifest",
	}
	for key, name := range bind {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	cmd.AddCommand(
		newBuildCmd(a),
		newDisCmd(a),
		newDumpCmd(a),
		newNativesCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup resolves the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("config")
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		a.v.Set(config.KeyColor, config.ColorNever)
	}
	cfg, err := config.Load(a.v, file, ".")
	if err != nil {
		return err
	}
	a.cfg = cfg
	color.NoColor = !cfg.UseColor(isTerminal(os.Stdout))

	writer := zerolog.ConsoleWriter{
		Out:     cmd.ErrOrStderr(),
		NoColor: !cfg.UseColor(isTerminal(os.Stderr)),
	}
	a.log = zerolog.New(writer).Level(cfg.LogLevel).With().Timestamp().Logger()
	if cfg.File != "" {
		a.log.Debug().Str("file", cfg.File).Msg("loaded config")
	}
	return nil
}
