package hostmon

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hostmon/api"
	"hostmon/collector"
	"hostmon/config"
	"hostmon/errors"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run headless and post snapshots to report.url",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load(ConfigPath)
		if err != nil {
			return err
		}
		if conf.Report.URL == "" {
			return errors.Config("report.url (HOSTMON_REPORT_URL) required", nil)
		}
		if conf.Report.APIKey == "" {
			return errors.Config("report.api_key (HOSTMON_REPORT_API_KEY) required", nil)
		}

		log.Info().Str("version", version).Str("commit", commit).Str("built", date).Msg("hostmon reporter")
		log.Info().Str("url", conf.Report.URL).Dur("interval", conf.Report.Interval).Msg("reporting")
		collector.DetectCapabilities()

		ctx, cancel := signalContext()
		defer cancel()

		mon := collector.NewMonitor(monitorOptions(conf))
		go func() {
			if err := mon.Run(ctx); err != nil {
				log.Err(err).Msg("monitor stopped")
			}
		}()

		sender := api.NewSender(conf.Report.URL, conf.Report.APIKey, version)
		runReporter(ctx, mon, sender, conf.Report.Interval)
		log.Info().Msg("shutting down")
		return nil
	},
}

// runReporter posts a report every interval; the server may change the
// interval through its response.
func runReporter(ctx context.Context, mon *collector.Monitor, sender *api.Sender, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	currentInterval := interval
	for {
		select {
		case <-ticker.C:
			newInterval := sendReport(ctx, mon, sender)
			if newInterval > 0 && newInterval != currentInterval {
				log.Info().Dur("from", currentInterval).Dur("to", newInterval).Msg("interval updated")
				currentInterval = newInterval
				ticker.Reset(currentInterval)
			}
		case <-ctx.Done():
			return
		}
	}
}

func sendReport(ctx context.Context, mon *collector.Monitor, sender *api.Sender) time.Duration {
	newInterval, err := sender.SendReport(ctx, mon.Report(ctx))
	if err != nil {
		log.Warn().Err(err).Msg("send failed")
		return 0
	}
	return newInterval
}
