package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claussann/FishingWebApp/internal/store"
)

func weatherCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "weather PLACE",
		Short: "Show the current weather for a place",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			r, err := a.weather.Lookup(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d°C %s in %s\n", r.Icon, r.Temperature, r.Description, r.City)
			fmt.Fprintf(cmd.OutOrStdout(), "humidity %.0f%%, wind %.1f km/h\n", r.Humidity, r.WindSpeed)
			return nil
		}),
	}
}

func settingsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "settings", Short: "Show or change preferences"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			printSettings(ctx, cmd, a)
			return nil
		}),
	}

	theme := &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Print or set the theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			if len(args) == 1 {
				next := a.settings.Theme(ctx).Toggle()
				if args[0] != "toggle" {
					t, err := store.ParseTheme(args[0])
					if err != nil {
						return err
					}
					next = t
				}
				if err := a.settings.SetTheme(ctx, next); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", a.settings.Theme(ctx))
			return nil
		}),
	}

	autosaveCmd := &cobra.Command{
		Use:       "autosave [on|off]",
		Short:     "Print or set automatic backups after edits",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			if len(args) == 1 {
				var enabled bool
				switch args[0] {
				case "on":
					enabled = true
				case "off":
				default:
					return fmt.Errorf("expected on or off, got %q", args[0])
				}
				if err := a.settings.SetAutosave(ctx, enabled); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "autosave: %s\n", onOff(a.settings.Autosave(ctx)))
			return nil
		}),
	}

	cmd.AddCommand(show, theme, autosaveCmd)
	return cmd
}

func printSettings(ctx context.Context, cmd *cobra.Command, a *app) {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintf(tw, "theme:\t%s\n", a.settings.Theme(ctx))
	fmt.Fprintf(tw, "autosave:\t%s\n", onOff(a.settings.Autosave(ctx)))
	fmt.Fprintf(tw, "autosave file:\t%s\n", a.cfg.AutosavePath)
	_ = tw.Flush()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
