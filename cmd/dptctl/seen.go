package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-dpt/internal/bridges/knx"
	"github.com/nerrad567/gray-logic-dpt/internal/infrastructure/config"
)

const seenTimeFormat = "2006-01-02 15:04:05"

var unmappedOnly bool

func init() {
	seenCmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file (default $DPTCTL_CONFIG or "+defaultConfigPath+")")
	seenCmd.Flags().BoolVar(&unmappedOnly, "unmapped", false, "Only show addresses without a datapoint mapping")

	rootCmd.AddCommand(seenCmd)
}

// seenCmd lists the group addresses recorded by the monitor
var seenCmd = &cobra.Command{
	Use:   "seen",
	Short: "List group addresses seen on the bus",
	Long: `List the group addresses the monitor has recorded in its database,
with telegram counts and the last payload. Requires database.path in the
configuration.`,
	Example: `  # Addresses that still need a datapoint mapping
  dptctl seen --unmapped`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeen(cmd.Context(), cmd.OutOrStdout(), getConfigPath(), unmappedOnly)
	},
}

func runSeen(ctx context.Context, w io.Writer, path string, unmapped bool) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Database.Enabled() {
		return fmt.Errorf("database.path is not configured in %s", path)
	}

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	seen, err := knx.NewRecorder(db.DB).SeenAddresses(ctx, unmapped)
	if err != nil {
		return err
	}
	if len(seen) == 0 {
		fmt.Fprintln(w, "No group addresses recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tTELEGRAMS\tLAST SEEN\tSERVICE\tPAYLOAD\tSOURCE\tMAPPED")
	for _, s := range seen {
		mapped := "no"
		if s.Mapped {
			mapped = "yes"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			s.Address, s.Telegrams, s.LastSeen.Format(seenTimeFormat),
			s.LastService, s.LastPayload, s.LastSource, mapped)
	}
	return tw.Flush()
}
