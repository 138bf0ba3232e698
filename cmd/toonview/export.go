package main

import (
	"GopherToon/internal/config"
	"GopherToon/internal/logger"
	"GopherToon/internal/ramp"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(root *options) *cobra.Command {
	var preset, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the sampled ramp as a 256x1 BMP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if preset == "" {
				cfg, err := config.Load(root.configPath)
				if err != nil {
					return report(err)
				}
				preset = cfg.Ramp.Preset
			}
			return report(exportRamp(preset, out))
		},
	}
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "ramp preset (TOML), defaults to the built-in stops")
	cmd.Flags().StringVarP(&out, "out", "o", "ramp.bmp", "output file")
	return cmd
}

// exportRamp samples preset (or the default stops when empty) into out.
func exportRamp(preset, out string) error {
	stops := ramp.DefaultStops()
	if preset != "" {
		loaded, err := ramp.LoadPreset(preset)
		if err != nil {
			return err
		}
		stops = loaded
	}

	texels, err := ramp.Sample(stops)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := ramp.EncodeBMP(f, texels); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Log.Info("Ramp exported", zap.String("path", out), zap.Int("stops", len(stops)))
	return nil
}

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default config and ramp preset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return report(writeStarter(dir, force))
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	return cmd
}

var errExists = errors.New("file exists")

func writeStarter(dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	cfgPath := filepath.Join(dir, "toonview.toml")
	presetPath := filepath.Join(dir, "ramp.toml")
	if !force {
		for _, p := range []string{cfgPath, presetPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s: %w (use --force)", p, errExists)
			}
		}
	}

	cfg := config.Default()
	cfg.Ramp.Preset = "ramp.toml"
	cfg.Ramp.Watch = true
	cfg.Scene.Behaviours = []string{"turntable"}
	if err := cfg.Save(cfgPath); err != nil {
		return err
	}
	return ramp.SavePreset(presetPath, "default", ramp.DefaultStops())
}
