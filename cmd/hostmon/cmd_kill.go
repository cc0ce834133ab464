package hostmon

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hostmon/collector"
	"hostmon/errors"
)

func init() {
	rootCmd.AddCommand(killCmd)
}

var killCmd = &cobra.Command{
	Use:   "kill PID",
	Short: "Forcefully terminate a process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.ErrInvalidArg("pid")
		}

		outcome := collector.ProcessControl{}.Kill(cmd.Context(), pid)
		fmt.Fprintln(cmd.OutOrStdout(), outcome.Message())
		if err := outcome.Err(); err != nil {
			return reportedError{err: err}
		}
		return nil
	},
	SilenceErrors: true,
}
