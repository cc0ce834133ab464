package hostmon

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hostmon/collector"
	"hostmon/config"
	"hostmon/ui"
)

// Build info
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	Debug      bool
	ConfigPath string
)

func init() {
	// windows only
	cobra.MousetrapHelpText = ""

	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&ConfigPath, "config", "", "config file (default ./hostmon.yaml or ~/.hostmon/hostmon.yaml)")
	rootCmd.PersistentPreRun = initLog
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			log.Err(err).Msg("command execution failed")
		}
		os.Exit(1)
	}
}

// reportedError marks a failure the command already printed to the user;
// it only sets the exit status.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "hostmon",
	Short: "Terminal host resource monitor",
	Long:  `hostmon samples CPU, memory and the process table and lets you search and kill processes.`,
	Args:  cobra.NoArgs,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PreRunE:      initTuiLog,
	RunE:         Root,
	SilenceUsage: true,
}

func Root(cmd *cobra.Command, args []string) error {
	conf, err := config.Load(ConfigPath)
	if err != nil {
		return err
	}
	collector.DetectCapabilities()

	ctx, cancel := signalContext()
	defer cancel()

	mon := collector.NewMonitor(monitorOptions(conf))
	go func() {
		if err := mon.Run(ctx); err != nil {
			log.Err(err).Msg("monitor stopped")
		}
	}()

	return ui.New(mon).Run(ctx)
}

func monitorOptions(conf *config.Config) collector.Options {
	return collector.Options{
		CPUInterval:     conf.CPU.Interval,
		CPUWindow:       conf.CPU.Window,
		CPUCombined:     conf.CPU.Combined,
		MemoryInterval:  conf.Memory.Interval,
		ProcessInterval: conf.Processes.Interval,
		ProcessLimit:    conf.Processes.Limit,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
