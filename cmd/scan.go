package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/orchestrator"
	"github.com/lakshaymaurya-felt/dcc/internal/progress"
	"github.com/lakshaymaurya-felt/dcc/internal/report"
)

var (
	scanPhases []string
	scanForce  bool
	scanMerge  bool
	scanTop    int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for reclaimable space",
	Long: `Run every enabled phase, or only the phases named with --phase, then
merge all cached phase results into <dcc-dir>/scan.json.
Phases with cached results are not rescanned unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge cached phase results into a report",
	Long:  "Build <dcc-dir>/scan.json from the cached phase results without scanning.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scanMerge = true
		return runScan(cmd, args)
	},
}

func init() {
	addScanFlags(scanCmd)
	// The root command scans too, so it takes the same flags.
	addScanFlags(rootCmd)
}

func addScanFlags(c *cobra.Command) {
	c.Flags().StringSliceVarP(&scanPhases, "phase", "p", nil, "Comma-separated phases to run")
	c.Flags().BoolVarP(&scanForce, "force", "f", false, "Ignore cached phase results")
	c.Flags().BoolVarP(&scanMerge, "merge", "m", false, "Only merge cached phase results")
	c.Flags().IntVar(&scanTop, "top", report.DefaultTop, "Number of findings to list in the summary")
}

func runScan(cmd *cobra.Command, _ []string) error {
	log := newLogger()
	home, err := homeDir()
	if err != nil {
		return err
	}
	dir := resolveDccDir(home)
	cfg := loadConfig(dir, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var display *progress.Display
	o := orchestrator.New(orchestrator.Options{
		DccDir: dir,
		Config: cfg,
		Home:   home,
		Force:  scanForce,
		Phases: phaseList(scanPhases),
		Log:    log,
		Observer: func(ev orchestrator.Event) {
			if display != nil {
				display.Observe(ev)
			}
		},
	})

	if !noProgress && !debug && progress.Enabled(os.Stderr) {
		log.SetLevel(logrus.WarnLevel)
		display = progress.Start(os.Stderr, o.Visited, cancel)
	}

	var r finding.Report
	if scanMerge {
		r, err = o.Merge()
	} else {
		r, err = o.Scan(ctx)
	}
	if display != nil {
		if derr := display.Stop(); derr != nil {
			log.WithError(derr).Debug("progress display")
		}
	}
	if err != nil {
		return err
	}

	opts := report.Options{Top: scanTop}
	if vol, err := report.VolumeOf(home); err == nil {
		opts.Volume = vol
	} else {
		log.WithError(err).Debug("volume usage unavailable")
	}
	report.Print(cmd.OutOrStdout(), r, opts)
	return nil
}

// phaseList flattens --phase values; nil means every enabled phase.
func phaseList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}
