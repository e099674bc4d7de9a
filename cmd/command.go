package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/dcc/internal/action"
	"github.com/lakshaymaurya-felt/dcc/internal/finding"
	"github.com/lakshaymaurya-felt/dcc/internal/probe"
)

var commandCheck bool

var commandCmd = &cobra.Command{
	Use:   "command <target> <action>",
	Short: "Print the shell command for a cleanup action",
	Long: `Print the shell command that applies an action (delete, compress,
git-gc, ollama-rm, hf-delete) to a target from the report. The command is
prefixed with sudo when the target lives in a system location.
Nothing is executed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := homeDir()
		if err != nil {
			return err
		}
		target := normalizeTarget(args[0], home)

		if commandCheck {
			checker := action.NewChecker(home, probe.Detect(), nil)
			if !checker.Exists(cmd.Context(), target) {
				return fmt.Errorf("%s no longer exists", target)
			}
		}

		line, _, err := action.Command(target, finding.ActionID(args[1]), home)
		if errors.Is(err, action.ErrNoCommand) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s needs no command\n", args[1])
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
		return nil
	},
}

func init() {
	commandCmd.Flags().BoolVar(&commandCheck, "check", false, "Fail when the target no longer exists")
}
