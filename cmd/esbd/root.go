package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"esbd-engine/internal/config"
	"esbd-engine/internal/poll"
	"esbd-engine/internal/secrets"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootFlags struct {
	configPath string
	dev        bool

	pages             int
	maxDetails        int
	sleep             float64
	sourceSystem      string
	jurisdictionLevel string
	jurisdictionState string
	supabaseURL       string
	supabaseKey       string
	supabaseTable     string
	onConflict        string
	out               string
	dataDir           string
	metricsFile       string
	interval          int
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:           "esbd",
		Short:         "Scrape Texas ESBD solicitations into canonical JSON records",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, f, false)
		},
	}

	f.bind(root)

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Scrape repeatedly on an interval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, f, true)
		},
	}
	watch.Flags().IntVar(&f.interval, "interval", 60, "minutes between runs")

	root.AddCommand(watch, newConfigCmd(f), newSecretsCmd())
	return root
}

// bind registers the flags shared by every subcommand. Defaults mirror
// config.Default; only flags the user sets override the config file.
func (f *rootFlags) bind(cmd *cobra.Command) {
	def := config.Default()
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "esbd.yml", "YAML config file (missing file means defaults)")
	pf.BoolVar(&f.dev, "dev", false, "human-readable console logs")
	pf.IntVar(&f.pages, "pages", def.Run.Pages, "how many ESBD list pages to scan (newest first)")
	pf.IntVar(&f.maxDetails, "max-details", def.Run.MaxDetails, "how many detail pages to fetch")
	pf.Float64Var(&f.sleep, "sleep", float64(def.Run.DelayMS)/1000, "seconds to pause after every fetch")
	pf.StringVar(&f.sourceSystem, "source-system", def.Record.SourceSystem, "source_system written on every record")
	pf.StringVar(&f.jurisdictionLevel, "jurisdiction-level", def.Record.JurisdictionLevel, "jurisdiction_level written on every record")
	pf.StringVar(&f.jurisdictionState, "jurisdiction-state", def.Record.JurisdictionState, "jurisdiction_state written on every record")
	pf.StringVar(&f.supabaseURL, "supabase-url", "", "sink project URL")
	pf.StringVar(&f.supabaseKey, "supabase-key", "", "sink API key")
	pf.StringVar(&f.supabaseTable, "supabase-table", "", "sink table")
	pf.StringVar(&f.onConflict, "on-conflict", def.Sink.OnConflict, "comma-separated conflict columns")
	pf.StringVar(&f.out, "out", def.Run.OutputPath, "output JSON file")
	pf.StringVar(&f.dataDir, "data-dir", "", "directory for the sqlite snapshot (disabled when empty)")
	pf.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus textfile metrics here")
}

// loadConfig reads the config file and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command, f *rootFlags) (config.Config, config.Validation, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, config.Validation{}, fmt.Errorf("config load failed (%s): %w", f.configPath, err)
	}

	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("pages", func() { cfg.Run.Pages = f.pages })
	set("max-details", func() { cfg.Run.MaxDetails = f.maxDetails })
	set("sleep", func() { cfg.Run.DelayMS = int(math.Round(f.sleep * 1000)) })
	set("source-system", func() { cfg.Record.SourceSystem = f.sourceSystem })
	set("jurisdiction-level", func() { cfg.Record.JurisdictionLevel = f.jurisdictionLevel })
	set("jurisdiction-state", func() { cfg.Record.JurisdictionState = f.jurisdictionState })
	set("supabase-url", func() { cfg.Sink.URL = f.supabaseURL })
	set("supabase-key", func() { cfg.Sink.Key = f.supabaseKey })
	set("supabase-table", func() { cfg.Sink.Table = f.supabaseTable })
	set("on-conflict", func() { cfg.Sink.OnConflict = f.onConflict })
	set("out", func() { cfg.Run.OutputPath = f.out })
	set("data-dir", func() { cfg.Run.DataDir = f.dataDir })
	set("metrics-file", func() { cfg.Run.MetricsFile = f.metricsFile })
	set("interval", func() { cfg.Run.IntervalMinutes = f.interval })

	cfg, res := config.NormalizeAndValidate(cfg)
	return cfg, res, res.Err()
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runScrape(cmd *cobra.Command, f *rootFlags, watch bool) error {
	log, err := newLogger(f.dev)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, res, err := loadConfig(cmd, f)
	for _, w := range res.Warnings {
		log.Warn("config", zap.String("warning", w))
	}
	if err != nil {
		return err
	}
	if watch && cfg.Run.IntervalMinutes <= 0 {
		cfg.Run.IntervalMinutes = f.interval
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := poll.BuildDeps(ctx, cfg, log, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	if watch {
		log.Info("watching", zap.Duration("interval", cfg.Interval()))
		poll.Watch(ctx, cfg, deps)
		return nil
	}

	start := time.Now()
	sum, err := poll.RunOnce(ctx, cfg, deps)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		return err
	}
	log.Info("run ok",
		zap.Int("pages", sum.Stats.Pages),
		zap.Int("unique", sum.Stats.Unique),
		zap.Int("enriched", sum.Stats.Enriched),
		zap.Int("detail_failures", sum.Stats.DetailFailures),
		zap.Int("written", sum.Written),
		zap.String("sink", sum.SinkStatus),
		zap.Duration("took", time.Since(start)))
	fmt.Fprintf(cmd.OutOrStdout(), "\n[wrote] %s (%d records)\n", cfg.Run.OutputPath, sum.Written)
	return nil
}

func newConfigCmd(f *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Inspect or write the config file"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective config (defaults + flags) to --config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if err := config.SaveAtomic(f.configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", f.configPath)
			return nil
		},
	})
	return cfgCmd
}

func newSecretsCmd() *cobra.Command {
	var account string
	sec := &cobra.Command{Use: "secrets", Short: "Manage the sink key in the OS keychain"}
	sec.PersistentFlags().StringVar(&account, "account", "", "keychain account (matches sink.keyring_account)")

	sec.AddCommand(&cobra.Command{
		Use:   "set-key",
		Short: "Read a sink API key from stdin and store it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("no key on stdin")
			}
			return secrets.SetSinkKey(account, strings.TrimSpace(line))
		},
	}, &cobra.Command{
		Use:   "delete-key",
		Short: "Remove the stored sink API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return secrets.DeleteSinkKey(account)
		},
	})
	return sec
}
