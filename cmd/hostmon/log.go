package hostmon

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func initLog(cmd *cobra.Command, args []string) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// initTuiLog keeps log lines off the terminal the UI draws on. With --debug
// they go to ~/.hostmon/hostmon.log (or HOSTMON_LOG_FILE).
func initTuiLog(cmd *cobra.Command, args []string) error {
	var logOutput io.Writer = io.Discard

	if Debug {
		path := os.Getenv("HOSTMON_LOG_FILE")
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				home = os.TempDir()
			}
			path = filepath.Join(home, ".hostmon", "hostmon.log")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		logFD, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		logOutput = logFD
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: logOutput, NoColor: true, TimeFormat: time.RFC3339})
	return nil
}
