package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/dcc/internal/orchestrator"
	"github.com/lakshaymaurya-felt/dcc/internal/pathid"
	"github.com/lakshaymaurya-felt/dcc/internal/snooze"
)

var snoozeDays int

var snoozeCmd = &cobra.Command{
	Use:   "snooze",
	Short: "Hide targets from future scans for a while",
	Long: `Manage the snooze store. Snoozed targets are left out of scan results
until their expiry passes.`,
}

var snoozeAddCmd = &cobra.Command{
	Use:   "add <target>...",
	Short: "Snooze targets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editSnoozed(cmd, func(reg *snooze.Registry, home string) {
			for _, arg := range args {
				target := normalizeTarget(arg, home)
				until := reg.Add(target, snoozeDays)
				fmt.Fprintf(cmd.OutOrStdout(), "  %s snoozed until %s\n", target, until.Local().Format(time.DateOnly))
			}
		})
	},
}

var snoozeRemoveCmd = &cobra.Command{
	Use:     "remove <target>...",
	Aliases: []string{"rm"},
	Short:   "Stop snoozing targets",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editSnoozed(cmd, func(reg *snooze.Registry, home string) {
			for _, arg := range args {
				target := normalizeTarget(arg, home)
				if reg.Remove(target) {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s removed\n", target)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s was not snoozed\n", target)
				}
			}
		})
	},
}

var snoozeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active snoozes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := homeDir()
		if err != nil {
			return err
		}
		reg := snooze.Load(orchestrator.SnoozePath(resolveDccDir(home)), time.Now(), newLogger())
		entries := reg.Entries()
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "  Nothing snoozed.")
			return nil
		}
		for _, e := range entries {
			until := e.ExpiresAt
			if t, ok := snooze.ParseTime(e.ExpiresAt); ok {
				until = t.Local().Format(time.DateOnly)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %-60s until %s\n", e.Target, until)
		}
		return nil
	},
}

func init() {
	snoozeCmd.PersistentFlags().IntVar(&snoozeDays, "days", snooze.DefaultDays, "Snooze duration in days")
	snoozeCmd.AddCommand(snoozeAddCmd)
	snoozeCmd.AddCommand(snoozeRemoveCmd)
	snoozeCmd.AddCommand(snoozeListCmd)
}

// editSnoozed loads the snooze store, applies edit and saves it.
func editSnoozed(cmd *cobra.Command, edit func(reg *snooze.Registry, home string)) error {
	home, err := homeDir()
	if err != nil {
		return err
	}
	path := orchestrator.SnoozePath(resolveDccDir(home))
	reg := snooze.Load(path, time.Now(), newLogger())
	edit(reg, home)
	if err := reg.Save(path); err != nil {
		return fmt.Errorf("save snoozes: %w", err)
	}
	return nil
}

// normalizeTarget turns a command-line target into the identifier used in
// reports: virtual targets stay as they are, paths inside home become
// "~/...".
func normalizeTarget(arg, home string) string {
	t := pathid.Parse(arg)
	if t.IsVirtual() || t.IsZero() {
		return t.String()
	}
	p := pathid.Expand(t.String(), home)
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return pathid.FromPath(p, home).String()
}
