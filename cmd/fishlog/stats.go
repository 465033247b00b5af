package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/claussann/FishingWebApp/internal/domain"
	"github.com/claussann/FishingWebApp/internal/logbook"
)

func statsCmd(opts *options) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for a year",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			if !cmd.Flags().Changed("year") {
				year = domain.Now().Year()
			}
			if year < 1 || year > 9999 {
				return fmt.Errorf("invalid year %d", year)
			}
			printStatistics(cmd.OutOrStdout(), a.logbook.Statistics(ctx, year))
			return nil
		}),
	}
	cmd.Flags().IntVar(&year, "year", 0, "Calendar year (default current year)")
	return cmd
}

func printStatistics(w io.Writer, s logbook.Statistics) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Outings per month in %d\n", s.Year)
	for i, n := range s.Months {
		month := time.Month(i + 1)
		fmt.Fprintf(tw, "  %s\t%d\t%s\n", month.String()[:3], n, strings.Repeat("#", n))
	}
	if s.TopMonth != 0 {
		fmt.Fprintf(tw, "Busiest month (all years):\t%s\n", s.TopMonth)
	}
	fmt.Fprintln(tw)

	printRanking(tw, "Top spots", s.TopSpots)
	printRanking(tw, "Top gear", s.TopGear)

	fmt.Fprintf(tw, "Spots used:\t%d\n", s.Usage.Spots)
	fmt.Fprintf(tw, "Gear used:\t%d\n", s.Usage.Gear)
	fmt.Fprintf(tw, "Totals:\t%d gear, %d spots, %d outings, %d catches\n",
		s.Totals.Gear, s.Totals.Spots, s.Totals.Outings, s.Totals.Catches)

	c := s.Catches
	fmt.Fprintf(tw, "Catches:\t%d (%d weighed, %.2f kg)\n", c.Total, c.Weighed, c.TotalWeight)
	if avg, ok := c.AverageWeight(); ok {
		fmt.Fprintf(tw, "Average weight:\t%.2f kg\n", avg)
	}
	if c.Heaviest != nil && c.Heaviest.Weight != nil {
		fmt.Fprintf(tw, "Heaviest:\t%s, %.2f kg on %s\n", c.Heaviest.Species, *c.Heaviest.Weight, c.Heaviest.Date)
	}
	printRanking(tw, "Top species", c.TopSpecies)
	_ = tw.Flush()
}

func printRanking(w io.Writer, title string, entries []logbook.RankEntry) {
	fmt.Fprintf(w, "%s\n", title)
	if len(entries) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for i, e := range entries {
		fmt.Fprintf(w, "  %d.\t%s\t%d\n", i+1, e.Name, e.Count)
	}
	fmt.Fprintln(w)
}

func techniquesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "techniques [ENVIRONMENT]",
		Short: "List suggested techniques per environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envs := domain.Environments
			if len(args) == 1 {
				env := domain.Environment(args[0])
				if env == "" || !env.Valid() {
					return fmt.Errorf("unknown environment %q", args[0])
				}
				envs = []domain.Environment{env}
			}
			for _, env := range envs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", env, strings.Join(domain.Techniques(env), ", "))
			}
			return nil
		},
	}
}
