package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/orchestrator"
	"github.com/lakshaymaurya-felt/dcc/internal/phasecache"
	"github.com/lakshaymaurya-felt/dcc/internal/scan"
)

var phasesClear bool

var phasesCmd = &cobra.Command{
	Use:   "phases [phase...]",
	Short: "List scan phases and their cached results",
	Long: `List every scan phase in execution order with whether it is enabled
and when its results were cached. With --clear, drop the cached results
of the named phases (all phases when none are named).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		home, err := homeDir()
		if err != nil {
			return err
		}
		dir := resolveDccDir(home)
		cfg := loadConfig(dir, log)
		cache := phasecache.New(orchestrator.StateDir(dir), log)

		if phasesClear {
			names := args
			if len(names) == 0 {
				names = config.PhaseOrder
			}
			for _, name := range names {
				if !config.IsKnownPhase(name) {
					return fmt.Errorf("unknown phase %q", name)
				}
				if err := cache.Clear(name); err != nil {
					return err
				}
			}
		}
		printPhases(cmd.OutOrStdout(), cfg, cache)
		return nil
	},
}

func init() {
	phasesCmd.Flags().BoolVar(&phasesClear, "clear", false, "Drop cached results")
}

func printPhases(w io.Writer, cfg config.Config, cache *phasecache.Cache) {
	for _, p := range scan.Phases() {
		state := "disabled"
		if cfg.Phases[p.Name] {
			state = "enabled"
		}
		cached := "not cached"
		if res, ok := cache.Load(p.Name); ok {
			cached = fmt.Sprintf("%d findings, cached %s", res.Count, res.Generated.Local().Format(time.DateTime))
		}
		fmt.Fprintf(w, "  %-20s %-9s %-32s %s\n", p.Name, state, p.Description, cached)
	}
}
