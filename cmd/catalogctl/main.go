package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nezhnik/omonete-sub001/internal/config"
	"github.com/nezhnik/omonete-sub001/internal/export"
	"github.com/nezhnik/omonete-sub001/internal/lifecycle"
	"github.com/nezhnik/omonete-sub001/internal/normalize"
	"github.com/nezhnik/omonete-sub001/internal/prices"
	"github.com/nezhnik/omonete-sub001/internal/store"
	"github.com/nezhnik/omonete-sub001/pkg/logger"
	"github.com/nezhnik/omonete-sub001/pkg/model"
	"github.com/nezhnik/omonete-sub001/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	cfg.ServiceName = "catalogctl"

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	subcommand := os.Args[1]
	switch subcommand {
	case "ping":
		return runPing(ctx, cfg)
	case "rules":
		return runRules()
	case "scan":
		return runRule(ctx, cfg, os.Args[2:], false)
	case "apply":
		return runRule(ctx, cfg, os.Args[2:], true)
	case "apply-all":
		return runApplyAll(ctx, cfg)
	case "migrate-prices":
		return runMigratePrices(ctx, cfg)
	case "purge-holidays":
		return runPurgeHolidays(ctx, cfg)
	case "export":
		return runExport(ctx, cfg)
	case "withdraw-routes":
		return runWithdrawRoutes(cfg)
	case "restore-routes":
		return runRestoreRoutes(cfg)
	case "purge-chart":
		return runPurgeChart(cfg)
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", subcommand)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: catalogctl <subcommand> [args]

Subcommands:
  ping               Check store connectivity
  rules              List registered normalization rules
  scan <rule>        Report what the named rule would change, without writing
  apply <rule>       Apply the named rule (idempotent; prints affected count)
  apply-all          Apply every registered rule in order
  migrate-prices     Rewrite gram-basis prices to the troy-ounce basis (guarded, one-shot)
  purge-holidays     Delete closed-market price rows (all metals zero)
  export             Write the snapshot artifacts (coins.json, coins/<id>.json)
  withdraw-routes    Move dynamic route sources out of the static build tree
  restore-routes     Move withdrawn route sources back (no-op if none)
  purge-chart        Remove the externally-refreshed chart artifact (idempotent)
`)
}

// openStore validates configuration and connects. Callers must Close the
// returned store on every exit path.
func openStore(ctx context.Context, cfg *config.Config) (*store.PGStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.S().Infow("connecting to store", "dsn", utils.MaskDSN(cfg.DatabaseURL))
	return store.New(ctx, cfg.DatabaseURL, logger.L())
}

func runPing(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Ping(ctx); err != nil {
		return err
	}
	fmt.Println("store: ok")
	return nil
}

func runRules() error {
	for _, rule := range normalize.Registry() {
		fmt.Printf("%-24s %s\n", rule.Name(), rule.Description())
	}
	return nil
}

func runRule(ctx context.Context, cfg *config.Config, args []string, commit bool) error {
	if len(args) < 1 {
		return fmt.Errorf("rule name required (see 'catalogctl rules')")
	}
	rule, ok := normalize.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown rule: %q", args[0])
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := normalize.NewRunner(st, logger.L())
	var report *model.RunReport
	if commit {
		report, err = runner.Run(ctx, rule)
	} else {
		report, err = runner.Scan(ctx, rule)
	}
	if err != nil {
		return err
	}

	printReport(report, commit)
	return nil
}

func printReport(report *model.RunReport, committed bool) {
	verb := "changed"
	if !committed {
		verb = "would change"
	}
	fmt.Printf("%s: inspected %d, %s %d, skipped %d, failed %d\n",
		report.Rule, report.Inspected, verb, report.Changed, report.Skipped, report.Failed)
	for _, ch := range report.Changes {
		fmt.Printf("  #%d %s: %q -> %q\n", ch.RecordID, ch.Field, ch.Before, ch.After)
	}
	if report.Changed == 0 && report.Failed == 0 {
		fmt.Println("  nothing to do")
	}
}

func runApplyAll(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := normalize.NewRunner(st, logger.L())
	reports, err := runner.RunAll(ctx)
	for _, report := range reports {
		printReport(report, true)
	}
	return err
}

func runMigratePrices(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	affected, err := prices.MigrateToOunceBasis(ctx, st, logger.L())
	if err != nil {
		return err
	}
	var total int64
	for metal, n := range affected {
		fmt.Printf("%-10s %d rows rescaled\n", metal, n)
		total += n
	}
	if total == 0 {
		fmt.Println("nothing to do: no rows on the gram basis")
	}
	return nil
}

func runPurgeHolidays(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := prices.PurgeHolidays(ctx, st, logger.L())
	if err != nil {
		return err
	}
	fmt.Printf("purged %d closed-market rows\n", n)
	return nil
}

func runExport(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	serializer := export.NewSerializer(st, cfg.PageLimit, cfg.PageLimitMax, logger.L())
	writer := export.NewWriter(serializer, cfg.ExportDir, logger.L())

	count, err := writer.WriteSnapshot(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d records to %s\n", count, cfg.ExportDir)
	return nil
}

func runWithdrawRoutes(cfg *config.Config) error {
	toggle := lifecycle.NewRouteToggle(cfg.RoutesDir, cfg.RoutesDir+".withdrawn", logger.L())
	moved, err := toggle.Withdraw()
	if err != nil {
		return err
	}
	if moved {
		fmt.Printf("withdrew %s\n", cfg.RoutesDir)
	} else {
		fmt.Println("nothing to withdraw")
	}
	return nil
}

func runRestoreRoutes(cfg *config.Config) error {
	toggle := lifecycle.NewRouteToggle(cfg.RoutesDir, cfg.RoutesDir+".withdrawn", logger.L())
	moved, err := toggle.Restore()
	if err != nil {
		return err
	}
	if moved {
		fmt.Printf("restored %s\n", cfg.RoutesDir)
	} else {
		fmt.Println("nothing to restore")
	}
	return nil
}

func runPurgeChart(cfg *config.Config) error {
	removed, err := lifecycle.PurgeArtifact(cfg.ChartArtifact, logger.L())
	if err != nil {
		return err
	}
	if removed {
		fmt.Printf("purged %s\n", cfg.ChartArtifact)
	} else {
		fmt.Println("nothing to purge")
	}
	return nil
}
