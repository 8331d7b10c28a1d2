package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"windwall/logger"
	"windwall/wallpaper"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "windwall",
		Short: "Keep the desktop background set to a wind-flow image",
		Long: `windwall applies a wind-flow image as the Windows desktop background.

It tries SystemParametersInfoW, then the same call with persist flags, then the
registry, then PowerShell, stopping at the first that works.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: config.ini next to the executable)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(applyCmd())
	root.AddCommand(runCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(menuCmd())
	return root
}

// setup loads the config and points the logger at it.
func setup() (*wallpaper.Config, io.Closer, error) {
	path := cfgFile
	if path == "" {
		path = wallpaper.DefaultConfigPath()
	}
	c, err := wallpaper.LoadConfig(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if verbose {
		c.Verbose = true
	}
	closer, err := logger.Setup(c.Logger())
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return c, closer, nil
}
