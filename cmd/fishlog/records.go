package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claussann/FishingWebApp/internal/domain"
	"github.com/claussann/FishingWebApp/internal/logbook"
)

func gearCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "gear", Short: "Manage the gear inventory"}

	var g domain.Gear
	var category, environment string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a piece of gear",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			g.Category = domain.GearCategory(category)
			g.Environment = domain.Environment(environment)
			created, err := a.logbook.AddGear(ctx, g)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added gear %s\n", created.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&category, "category", "", "Category: rod, reel or terminal-tackle")
	add.Flags().StringVar(&g.Name, "name", "", "Name or model")
	add.Flags().StringVar(&g.Subtype, "subtype", "", "Subtype, e.g. spinning")
	add.Flags().StringVar(&environment, "environment", "", "Environment: sea, boat or freshwater")
	add.Flags().StringVar(&g.Technique, "technique", "", "Technique (see fishlog techniques)")
	add.Flags().IntVar(&g.Quantity, "quantity", 1, "Quantity")
	add.Flags().StringVar(&g.Notes, "notes", "", "Free-text notes")

	var filter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List gear, optionally by category",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			category := domain.GearCategory(filter)
			if category != "" && !category.Valid() {
				return fmt.Errorf("unknown category %q", filter)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tCATEGORY\tNAME\tSUBTYPE\tENV\tTECHNIQUE\tQTY")
			for _, g := range a.logbook.ListGear(ctx, category) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
					g.ID, g.Category, g.Name, orDash(g.Subtype), orDash(string(g.Environment)), orDash(g.Technique), g.Quantity)
			}
			return tw.Flush()
		}),
	}
	list.Flags().StringVar(&filter, "category", "", "Only list this category")

	cmd.AddCommand(add, list, deleteCmd(opts, "gear", func(lb *logbook.Logbook) func(context.Context, string) error {
		return lb.DeleteGear
	}))
	return cmd
}

func spotCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "spot", Short: "Manage fishing spots"}

	var s domain.Spot
	var category, photo string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a spot at a coordinate",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			var err error
			if s.Photo, err = photoDataURL(photo); err != nil {
				return err
			}
			s.Category = domain.SpotCategory(category)
			created, err := a.logbook.AddSpot(ctx, s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added spot %s\n", created.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&s.Name, "name", "", "Spot name")
	add.Flags().Float64Var(&s.Lat, "lat", 0, "Latitude")
	add.Flags().Float64Var(&s.Lng, "lng", 0, "Longitude")
	add.Flags().StringVar(&category, "category", "", "Category, e.g. harbor or river")
	add.Flags().StringVar(&s.Notes, "notes", "", "Free-text notes")
	add.Flags().StringVar(&photo, "photo", "", "Image file to attach")
	_ = add.MarkFlagRequired("lat")
	_ = add.MarkFlagRequired("lng")

	list := &cobra.Command{
		Use:   "list",
		Short: "List spots",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tLAT\tLNG")
			for _, s := range a.logbook.ListSpots(ctx) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.5f\t%.5f\n", s.ID, s.Name, orDash(string(s.Category)), s.Lat, s.Lng)
			}
			return tw.Flush()
		}),
	}

	cmd.AddCommand(add, list, deleteCmd(opts, "spot", func(lb *logbook.Logbook) func(context.Context, string) error {
		return lb.DeleteSpot
	}))
	return cmd
}

func outingCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "outing", Short: "Manage the outing diary"}

	var o domain.Outing
	var date string
	add := &cobra.Command{
		Use:   "add",
		Short: "Record an outing",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			d, err := dateOrToday(date)
			if err != nil {
				return err
			}
			o.Date = d
			created, err := a.logbook.AddOuting(ctx, o)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added outing %s\n", created.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	add.Flags().StringVar(&o.Time, "time", "", "Start time as HH:MM")
	add.Flags().StringVar(&o.SpotID, "spot", "", "Spot ID")
	add.Flags().StringSliceVar(&o.GearIDs, "gear", nil, "Gear IDs (repeatable or comma separated)")
	add.Flags().StringVar(&o.Notes, "notes", "", "Free-text notes")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the diary, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tDATE\tTIME\tSPOT\tGEAR\tNOTES")
			for _, o := range a.logbook.Diary(ctx) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					o.ID, o.Date, orDash(o.Time), orDash(o.SpotName), orDash(strings.Join(o.GearNames, ", ")), orDash(o.Notes))
			}
			return tw.Flush()
		}),
	}

	latest := &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent outing",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			o, ok := a.logbook.Latest(ctx)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no outings recorded")
				return nil
			}
			printOuting(cmd, o)
			return nil
		}),
	}

	cmd.AddCommand(add, list, latest, deleteCmd(opts, "outing", func(lb *logbook.Logbook) func(context.Context, string) error {
		return lb.DeleteOuting
	}))
	return cmd
}

func printOuting(cmd *cobra.Command, o logbook.ResolvedOuting) {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintf(tw, "Date:\t%s %s\n", o.Date, o.Time)
	fmt.Fprintf(tw, "Spot:\t%s\n", orDash(o.SpotName))
	gear := strings.Join(o.GearNames, ", ")
	if o.MissingGear > 0 {
		gear = strings.TrimPrefix(gear+", ", ", ") + strconv.Itoa(o.MissingGear) + " deleted"
	}
	fmt.Fprintf(tw, "Gear:\t%s\n", orDash(gear))
	fmt.Fprintf(tw, "Notes:\t%s\n", orDash(o.Notes))
	_ = tw.Flush()
}

func catchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "catch", Short: "Manage the catch log"}

	var c domain.Catch
	var date, photo string
	var weight float64
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a catch",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			d, err := dateOrToday(date)
			if err != nil {
				return err
			}
			c.Date = d
			if cmd.Flags().Changed("weight") {
				c.Weight = &weight
			}
			if c.Photo, err = photoDataURL(photo); err != nil {
				return err
			}
			created, err := a.logbook.AddCatch(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added catch %s\n", created.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	add.Flags().StringVar(&c.Species, "species", "", "Species")
	add.Flags().Float64Var(&weight, "weight", 0, "Weight in kg (omit when not measured)")
	add.Flags().StringVar(&c.Notes, "notes", "", "Free-text notes")
	add.Flags().StringVar(&photo, "photo", "", "Image file to attach")

	list := &cobra.Command{
		Use:   "list",
		Short: "List catches",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tDATE\tSPECIES\tWEIGHT\tNOTES")
			for _, c := range a.logbook.ListCatches(ctx) {
				w := "-"
				if c.Weight != nil {
					w = strconv.FormatFloat(*c.Weight, 'f', -1, 64) + " kg"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Date, c.Species, w, orDash(c.Notes))
			}
			return tw.Flush()
		}),
	}

	cmd.AddCommand(add, list, deleteCmd(opts, "catch", func(lb *logbook.Logbook) func(context.Context, string) error {
		return lb.DeleteCatch
	}))
	return cmd
}

func dateOrToday(s string) (domain.Date, error) {
	if s == "" {
		return domain.DateOf(domain.Now()), nil
	}
	return domain.ParseDate(s)
}
