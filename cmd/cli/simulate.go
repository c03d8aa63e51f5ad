package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pvs-dispatch/internal/analysis"
	"pvs-dispatch/internal/config"
	"pvs-dispatch/internal/data"
	"pvs-dispatch/internal/dispatch"
	"pvs-dispatch/internal/horizon"
	"pvs-dispatch/internal/logger"
	"pvs-dispatch/internal/sweep"
	"pvs-dispatch/internal/timeline"
)

var simulateOpts struct {
	out      string
	workers  int
	noHourly bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run every case of the sweep and write hourly CSVs and a summary",
	RunE:  simulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simulateOpts.out, "out", "", "output directory (default: output.dir from the project)")
	simulateCmd.Flags().IntVar(&simulateOpts.workers, "workers", 0, "cases to run at once (default: sweep.workers)")
	simulateCmd.Flags().BoolVar(&simulateOpts.noHourly, "no-hourly", false, "skip the per-case hourly CSVs")
	rootCmd.AddCommand(simulateCmd)
}

func simulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if simulateOpts.out != "" {
		cfg.Output.Dir = simulateOpts.out
	}
	if simulateOpts.workers > 0 {
		cfg.Sweep.Workers = simulateOpts.workers
	}
	log := logger.New("simulate")

	in, _, err := cfg.SimulationInputs()
	if err != nil {
		return err
	}
	plant, err := sweep.NewPlant(in, cfg.Settings())
	if err != nil {
		return err
	}
	cases, err := sweep.Enumerate(cfg.Sweep.Spec())
	if err != nil {
		return err
	}

	scheduler, err := dispatch.NewScheduler(cfg.Dispatch.Scheduler)
	if err != nil {
		return err
	}

	driver := sweep.NewDriver(cfg.Sweep.Workers, log)
	driver.Engine.Scheduler = scheduler
	driver.Engine.Workers = cfg.Dispatch.DayWorkers
	driver.KeepInputs = cfg.Output.KeepInputs
	log.Infof("%d cases over %d years, %s scheduler, %d workers", len(cases), in.Years(), scheduler.Name(), cfg.Sweep.Workers)

	start := time.Now()
	results, err := driver.Run(ctx, plant, cases)
	if err != nil {
		return err
	}
	log.Infof("sweep took %s", time.Since(start).Round(time.Millisecond))

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return err
	}
	if !simulateOpts.noHourly {
		axis := timeline.Axis(in.COD, in.Years())
		for _, c := range results.Ordered() {
			path := filepath.Join(cfg.Output.Dir, c.ID+".csv")
			if err := horizon.WriteOutputCSV(path, c.Result.Output, axis); err != nil {
				return fmt.Errorf("%s: %w", c.ID, err)
			}
		}
	}

	ranked := analysis.RankByUplift(analysis.SummarizeAll(results))
	summaryPath := filepath.Join(cfg.Output.Dir, "summary.json")
	if err := data.WriteJSON(summaryPath, ranked); err != nil {
		return err
	}

	printRanking(cmd, ranked)
	fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", summaryPath)
	return nil
}

func printRanking(cmd *cobra.Command, ranked []analysis.CaseSummary) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-4s %-9s %-6s %-9s %-8s %-6s %-9s %-14s %-14s %-12s\n",
		"rank", "case", "dc/ac", "inv MW", "pcs MW", "hours", "arb days", "batt MWh", "pvs revenue", "uplift")
	for i, s := range ranked {
		fmt.Fprintf(w, "%-4d %-9s %-6.3f %-9.2f %-8.2f %-6.2f %-9d %-14.1f %-14.0f %-12.0f\n",
			i+1, s.CaseID, s.DCAC, s.InverterMW, s.PCSMW, s.BatteryHours,
			s.ArbitrageDays, s.BatteryDischargeMWh, s.PVSRevenue, s.RevenueUplift)
	}
}
