package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gerunddev/roampages/internal/config"
	"github.com/gerunddev/roampages/internal/styles"
)

// Init writes a default config file
func Init(args []string) {
	var (
		configPath string
		graphPath  string
		output     string
		format     string
		force      bool
	)

	defaults := config.DefaultConfig()
	flags := pflag.NewFlagSet("init", pflag.ExitOnError)
	flags.StringVarP(&configPath, "config", "c", config.ConfigPath(), "Config file to write")
	flags.StringVarP(&graphPath, "graph", "g", defaults.Graph, "Roam JSON export")
	flags.StringVarP(&output, "output", "o", defaults.Output, "Output directory")
	flags.StringVarP(&format, "format", "f", defaults.Format, "Output format: html|markdown")
	flags.BoolVar(&force, "force", false, "Overwrite an existing config file")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: roampages init [flags]\n\nFlags:\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(args)

	if err := writeConfig(configPath, graphPath, output, format, force); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Wrote " + configPath))
	fmt.Println(styles.DimStyle.Render("  Tag pages with #" + defaults.Include + " and run 'roampages build'"))
}

func writeConfig(path, graphPath, output, format string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	cfg.Graph = graphPath
	cfg.Output = output
	cfg.Format = format
	cfg.Extension = config.DefaultExtension(format)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg.SaveFile(path)
}
