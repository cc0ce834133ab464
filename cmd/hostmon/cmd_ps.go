package hostmon

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hostmon/collector"
	"hostmon/config"
	"hostmon/models"
)

func init() {
	rootCmd.AddCommand(psCmd)
	psCmd.Flags().StringVarP(&psQuery, "query", "q", "", "filter by name (case-insensitive) or pid substring")
	psCmd.Flags().IntVarP(&psLimit, "limit", "n", 0, "maximum rows, at most 30 (default from config)")
	psCmd.Flags().BoolVar(&psJSON, "json", false, "print JSON")
}

var (
	psQuery string
	psLimit int
	psJSON  bool
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "Print the process table once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load(ConfigPath)
		if err != nil {
			return err
		}
		limit := conf.Processes.Limit
		if psLimit > 0 {
			limit = min(psLimit, collector.DefaultProcessLimit)
		}

		snap, err := collector.NewProcessCollector(nil, limit).Refresh(cmd.Context(), psQuery)
		if err != nil {
			return err
		}

		if psJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		return writeProcessTable(cmd.OutOrStdout(), snap)
	},
}

func writeProcessTable(w io.Writer, snap *models.ProcessSnapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tNAME\tCPU %\tMEM %\tSTATUS")
	for _, rec := range snap.Records {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%s\n", rec.PID, rec.Name, rec.CPU, rec.Memory, rec.Status)
	}
	return tw.Flush()
}
