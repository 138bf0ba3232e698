// Command toonview renders a model with a live-editable toon ramp.
package main

import (
	"GopherToon/internal/config"
	"GopherToon/internal/logger"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	// glfw and GL calls must stay on the main thread
	runtime.LockOSThread()
}

type options struct {
	configPath string
	model      string
	preset     string
	watch      bool
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "toonview",
		Short:         "View a model with toon shading driven by a colour ramp",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return report(err)
			}
			defer logger.Sync()
			return report(runViewer(cfg))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "toonview.toml", "config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "OBJ model to shade")
	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "ramp preset (TOML)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the preset when it changes")

	cmd.AddCommand(newExportCmd(opts), newInitCmd())
	return cmd
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Scene.Model = opts.model
	}
	if flags.Changed("preset") {
		cfg.Ramp.Preset = opts.preset
	}
	if flags.Changed("watch") {
		cfg.Ramp.Watch = opts.watch
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := logger.InitWithConfig(cfg.Log.Level, cfg.Log.Development); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func report(err error) error {
	if err != nil {
		logger.Log.Error("toonview failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "toonview:", err)
	}
	return err
}
