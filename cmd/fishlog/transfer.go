package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/claussann/FishingWebApp/internal/backup"
)

func exportCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a full JSON backup",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			doc := a.codec.Export(ctx)
			if out == "" || out == "-" {
				return backup.Encode(cmd.OutOrStdout(), doc)
			}
			if err := backup.WriteFile(out, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "backup written to %s\n", out)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func importCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all data with a JSON backup",
		Long: `import validates the backup, shows what it contains and, once confirmed,
replaces every collection with its contents. Use - to read from stdin
together with --yes.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(opts, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			snap, err := a.codec.Check(raw)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), backup.Preview(snap))

			ok, err := confirm(cmd, yes, "Replace all current data with this backup?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			if err := a.logbook.Exclusive(func() error { return a.codec.Apply(ctx, snap) }); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "import complete")
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	return raw, nil
}

func printSummary(w io.Writer, s backup.Summary) {
	tw := newTable(w)
	if s.ExportDate != nil {
		fmt.Fprintf(tw, "Exported:\t%s\n", s.ExportDate.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(tw, "Version:\t%s\n", orDash(s.Version))
	fmt.Fprintf(tw, "Gear:\t%d\n", s.Gear)
	fmt.Fprintf(tw, "Spots:\t%d\n", s.Spots)
	fmt.Fprintf(tw, "Outings:\t%d\n", s.Outings)
	fmt.Fprintf(tw, "Catches:\t%d\n", s.Catches)
	if n := s.Skipped.Total(); n > 0 {
		fmt.Fprintf(tw, "Skipped:\t%d unreadable records\n", n)
	}
	_ = tw.Flush()
}
