package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/dcc/internal/config"
	"github.com/lakshaymaurya-felt/dcc/internal/orchestrator"
)

// DefaultDirName is the dcc directory created under the home directory.
const DefaultDirName = ".dcc"

var (
	// Global flags
	configPath string
	dccDir     string
	debug      bool
	noProgress bool

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "dcc",
	Short: "Find reclaimable disk space",
	Long: `dcc - disk cleanup consultant.

Scans the home directory for large files, build artifacts, git
repositories, AI models, applications, leftovers, caches and logs,
then writes a ranked report of what could be reclaimed.
Nothing is ever deleted by the scan.`,
	SilenceUsage: true,
	RunE:         runScan,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default <dcc-dir>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dccDir, "dcc-dir", "", "State and report directory (default ~/"+DefaultDirName+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable the progress display")

	// Register all subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(phasesCmd)
	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(snoozeCmd)
	rootCmd.AddCommand(versionCmd)
}

// ─── Shared setup ────────────────────────────────────────────────────────────

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return log
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return home, nil
}

// resolveDccDir returns --dcc-dir or the default under home.
func resolveDccDir(home string) string {
	if dccDir != "" {
		return dccDir
	}
	return filepath.Join(home, DefaultDirName)
}

// loadConfig reads --config or <dir>/config.yaml. Invalid files fall back to
// the defaults with a warning.
func loadConfig(dir string, log logrus.FieldLogger) config.Config {
	path := configPath
	if path == "" {
		path = filepath.Join(dir, orchestrator.ConfigFileName)
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("invalid configuration, using defaults")
	}
	for _, name := range cfg.UnknownPhases() {
		log.WithField("phase", name).Debug("configuration names an unknown phase")
	}
	return cfg
}
