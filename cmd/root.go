package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"parsverse/pkg/config"
	"parsverse/pkg/generator"
	"parsverse/pkg/illustrate"
	"parsverse/pkg/imagegen"
	"parsverse/pkg/inference"
	"parsverse/pkg/policy"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var (
	configPath string
	verbose    bool
	format     string
	outPath    string
	modeFlag   string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:           "parsverse",
	Short:         "Generate Iranian myths, chronicles and personas with an LLM",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		if format != formatText && format != formatJSON {
			return fmt.Errorf("unsupported format %q (use %q or %q)", format, formatText, formatJSON)
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if modeFlag != "" {
			mode, err := policy.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			cfg.Mode = mode
		}
		log.Debug("config loaded", "path", configPath, "provider", cfg.Provider, "mode", cfg.Mode, "images", cfg.Image.Provider)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&format, "format", formatText, "Output format: text or json")
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "Also save the result as JSON to this path")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "Transliteration mode: modern or old_persian")

	rootCmd.SetOut(os.Stdout)
}

// app holds the wired generation pipeline.
type app struct {
	generator *generator.Generator
	composer  *illustrate.Composer
}

func newApp(ctx context.Context) (*app, error) {
	completer, err := inference.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	images, err := imagegen.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &app{
		generator: generator.New(cfg, completer),
		composer:  illustrate.New(cfg, images),
	}, nil
}
