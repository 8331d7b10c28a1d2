package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"windwall/logger"
	"windwall/wallpaper"
)

// overrides are the flags that replace config values for one invocation.
type overrides struct {
	url      string
	interval time.Duration
	dryRun   bool
}

func (o *overrides) apply(c *wallpaper.Config) error {
	if o.url != "" {
		c.SetSourceURL(o.url)
	}
	if o.interval != 0 {
		c.Interval = o.interval
	}
	return c.Validate()
}

func applyCmd() *cobra.Command {
	var (
		style string
		o     overrides
	)
	cmd := &cobra.Command{
		Use:   "apply [image]",
		Short: "Apply the wallpaper once",
		Long:  "Fetch the configured image and apply it. With an argument, apply that file instead.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := setup()
			if err != nil {
				return err
			}
			defer closer.Close()

			if style != "" {
				if c.Style, err = wallpaper.ParseStyle(style); err != nil {
					return err
				}
			}
			if err := o.apply(c); err != nil {
				return err
			}

			w := wallpaper.New(c)
			w.DryRun = o.dryRun
			var res wallpaper.Result
			if len(args) == 1 {
				res, err = w.ApplyFile(cmd.Context(), args[0])
			} else {
				res, err = w.Update(cmd.Context())
			}
			if err != nil {
				return err
			}
			if res.Err != nil {
				return res.Err
			}
			if o.dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), "image prepared, wallpaper left unchanged (dry run)")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wallpaper applied via %s\n", res.Method)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "", "center, tile, stretch, fit, fill or span (default from config)")
	cmd.Flags().StringVar(&o.url, "url", "", "download the image from this URL instead of the configured source")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "fetch and prepare the image without changing the wallpaper")
	return cmd
}

func runCmd() *cobra.Command {
	var (
		o     overrides
		check bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Update the wallpaper on the configured interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := setup()
			if err != nil {
				return err
			}
			defer closer.Close()
			if err := o.apply(c); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Printf("[info run] config %s", c.Path)
			w := wallpaper.New(c)
			w.DryRun = o.dryRun
			if check && !o.dryRun {
				// A failed check is only a warning: the next cycle may succeed.
				if _, err := w.Check(ctx); err != nil {
					logger.Printf("[err run] check: %v", err)
				}
			}
			s := wallpaper.NewScheduler(w, c.Interval, wallpaper.WatchPath(c))
			if err := s.Run(ctx); err != nil {
				return err
			}
			logger.Printf("[info run] stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&o.url, "url", "", "download the image from this URL instead of the configured source")
	cmd.Flags().DurationVar(&o.interval, "interval", 0, "time between updates (default from config)")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "fetch and prepare the image without changing the wallpaper")
	cmd.Flags().BoolVar(&check, "check", false, "apply a test image first and warn if the wallpaper cannot be set")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Apply a plain test image to see whether the wallpaper can be set",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := setup()
			if err != nil {
				return err
			}
			defer closer.Close()

			res, err := wallpaper.New(c).Check(cmd.Context())
			if err != nil {
				return err
			}
			if !res.Success {
				for _, a := range res.Attempts {
					fmt.Fprintln(cmd.OutOrStdout(), "  "+a.String())
				}
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wallpaper can be set via %s\n", res.Method)
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the result of the last update",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := setup()
			if err != nil {
				return err
			}
			defer closer.Close()

			st, err := (&wallpaper.StatusStore{Path: c.StatusPath}).Load()
			if errors.Is(err, wallpaper.ErrNoStatus) {
				fmt.Fprintln(cmd.OutOrStdout(), "no update recorded yet")
				return nil
			}
			if err != nil {
				return err
			}
			if asJSON {
				data, err := st.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), st.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw status JSON")
	return cmd
}

func menuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Manage the desktop right-click entry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Add a desktop right-click entry that refreshes the wallpaper",
		RunE: func(cmd *cobra.Command, args []string) error {
			exe, err := os.Executable()
			if err != nil {
				return err
			}
			config := cfgFile
			if config != "" {
				if config, err = filepath.Abs(config); err != nil {
					return err
				}
			}
			return wallpaper.InstallMenu(exe, config)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Remove the desktop right-click entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wallpaper.RemoveMenu()
		},
	})
	return cmd
}
