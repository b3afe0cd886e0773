package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ipnslabs/regmonitor/api"
	"github.com/ipnslabs/regmonitor/chains/evm"
	"github.com/ipnslabs/regmonitor/config"
	"github.com/ipnslabs/regmonitor/cron"
	"github.com/ipnslabs/regmonitor/logger"
	"github.com/ipnslabs/regmonitor/monitor"
	"github.com/ipnslabs/regmonitor/notifier"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(pollOnceCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(versionCmd())
}

func newNotifier(cfg *config.Config, log zerolog.Logger) *notifier.Notifier {
	var targets []notifier.Target
	if cfg.DiscordWebhookURL != "" {
		targets = append(targets, notifier.NewDiscordTarget(cfg.DiscordWebhookURL))
	}
	if cfg.SlackWebhookURL != "" {
		targets = append(targets, notifier.NewSlackTarget(cfg.SlackWebhookURL))
	}
	return notifier.New(log, targets...)
}

// newMonitor wires the full monitor, chain client included.
func newMonitor(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*monitor.Monitor, func(), error) {
	chain, err := evm.Dial(ctx, cfg.RPCURL, cfg.Contract, cfg.TopicRegister, log)
	if err != nil {
		return nil, nil, err
	}
	m := monitor.New(cfg, chain, newNotifier(cfg, log), log)
	return m, chain.Close, nil
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the registration monitor with its poll loop and HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, cfg.LogFormat)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m, closeChain, err := newMonitor(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer closeChain()

			server := api.NewServer(log, cfg.ServerPort, m, cfg.AnalyticsSharedSecret)
			if err := server.Start(); err != nil {
				return err
			}
			log.Info().Int("port", cfg.ServerPort).Str("state_path", cfg.StatePath).Msg("registration monitor started")

			job := cron.NewPollJob(m, cfg.PollInterval(), time.Minute, log)
			if err := job.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			log.Info().Msg("shutting down")
			job.Stop()
			return server.Stop()
		},
	}
}

func pollOnceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll-once",
		Short: "Run a single poll cycle and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, cfg.LogFormat)

			ctx := cmd.Context()
			m, closeChain, err := newMonitor(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer closeChain()

			result, err := m.PollOnce(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func reconcileCmd() *cobra.Command {
	var hours int

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compute the reconciliation report and write it to the report directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, cfg.LogFormat)

			// read-only: no chain client or notifier needed
			m := monitor.New(cfg, nil, nil, log)
			report := m.Reconciliation(hours)

			out := struct {
				GeneratedAt time.Time `json:"generatedAt"`
				StatePath   string    `json:"statePath"`
				monitor.Report
			}{
				GeneratedAt: time.Now().UTC(),
				StatePath:   cfg.StatePath,
				Report:      report,
			}

			if err := os.MkdirAll(cfg.ReportDir, 0o750); err != nil {
				return err
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			reportPath := filepath.Join(cfg.ReportDir,
				fmt.Sprintf("registration-reconciliation-%s.json", time.Now().UTC().Format("20060102")))
			if err := os.WriteFile(reportPath, data, 0o600); err != nil {
				return err
			}

			log.Info().Str("report_path", reportPath).Msg("reconciliation report written")
			return printJSON(cmd, out)
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 24, "trailing window in hours")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print regmond version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "regmond %s\n", Version)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
