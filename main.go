package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/arelle/uiprobe/e2e/automation"
	"github.com/arelle/uiprobe/e2e/automation/webdriver"
	"github.com/arelle/uiprobe/e2e/harness"
	"github.com/arelle/uiprobe/e2e/scenarios"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	configPath   string
	logLevel     string
	logFormat    string
	driverName   string
	webDriverURL string
	metricsFile  string
	launchPTY    bool
	dumpPID      int
	dumpDesktop  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "uiprobe",
	Short: "End-to-end probe for the Arelle desktop application",
	Long: `Launch the Arelle desktop application, attach to its UI through an
accessibility driver and run scenarios against it.

Configuration is read from the environment (ARELLE_USE_BUILD, ARELLE_PATH,
ARELLE_RESOURCES_PATH, ARELLE_PYTHON_EXE, UIPROBE_DRIVER, ...) and from an
optional YAML file given with --config or UIPROBE_CONFIG.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&driverName, "driver", "", "automation driver (default "+webdriver.Name+")")
	rootCmd.PersistentFlags().StringVar(&webDriverURL, "webdriver-url", "", "WinAppDriver endpoint")

	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus text-format metrics to FILE")
	runCmd.Flags().BoolVar(&launchPTY, "pty", false, "attach the launched process to a pseudo-terminal")

	dumpCmd.Flags().IntVar(&dumpPID, "pid", 0, "process id to attach to")
	dumpCmd.Flags().BoolVar(&dumpDesktop, "desktop", false, "dump the desktop instead of the main window")
	_ = dumpCmd.MarkFlagRequired("pid")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(versionCmd)
}

// Helper functions

// loadConfig layers command-line flags over the environment and config file.
func loadConfig(cmd *cobra.Command) (harness.Config, error) {
	cfg, err := harness.LoadConfig(os.Getenv, configPath)
	if err != nil {
		return harness.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		if _, err := harness.ParseLevel(logLevel); err != nil {
			return harness.Config{}, &harness.ConfigError{Key: "--log-level", Reason: err.Error()}
		}
		cfg.LogLevel = logLevel
	}
	if flags.Changed("driver") {
		cfg.Driver = driverName
	}
	if flags.Changed("webdriver-url") {
		cfg.WebDriverURL = webDriverURL
	}
	if flags.Changed("pty") {
		cfg.LaunchPTY = launchPTY
	}
	if cfg.Driver == "" {
		cfg.Driver = webdriver.Name
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg harness.Config) *slog.Logger {
	return harness.NewLogger(cfg.LogLevel, logFormat, cmd.ErrOrStderr())
}

func openDriver(cfg harness.Config) (automation.Driver, error) {
	d, err := automation.Open(cfg.Driver, cfg.WebDriverURL)
	if err != nil {
		return nil, &harness.ConfigError{Key: harness.EnvDriver, Reason: err.Error()}
	}
	return d, nil
}

func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// pickScenarios asks which scenarios to run. All are preselected.
func pickScenarios() ([]string, error) {
	names := scenarios.Names()
	selected := append([]string(nil), names...)

	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Scenarios to run").
			Options(huh.NewOptions(names...)...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, errors.New("no scenarios selected")
	}
	return selected, nil
}

// Commands

var runCmd = &cobra.Command{
	Use:   "run [scenario...]",
	Short: "Run scenarios against a freshly launched application",
	Long: `Run scenarios, each against its own launch of the application.

Without arguments every scenario runs; on a terminal you are asked to pick.
Available scenarios: ` + fmt.Sprint(scenarios.Names()),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd, cfg)

		names := args
		if len(names) == 0 && isInteractive() {
			if names, err = pickScenarios(); err != nil {
				return err
			}
		}
		selected, err := scenarios.Select(names)
		if err != nil {
			return err
		}

		driver, err := openDriver(cfg)
		if err != nil {
			return err
		}
		metrics := harness.NewMetrics()
		runner, err := harness.NewRunner(harness.Options{
			Config:  cfg,
			Driver:  driver,
			Logger:  logger,
			Metrics: metrics,
		})
		if err != nil {
			return err
		}
		logger.Info("launch plan", "plan", harness.DescribePlan(runner.Plan()))

		reports, runErr := runner.RunAll(selected)
		harness.FormatReports(cmd.OutOrStdout(), reports)

		if metricsFile != "" {
			if err := metrics.WriteTextfile(metricsFile); err != nil {
				return errors.Join(runErr, fmt.Errorf("writing metrics: %w", err))
			}
		}
		return runErr
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show how the application would be launched",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		p, err := harness.ResolvePlan(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), harness.DescribePlan(p))
		return nil
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump --pid <pid>",
	Short: "Attach to a running process and log its element tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		driver, err := openDriver(cfg)
		if err != nil {
			return err
		}
		session, err := harness.Attach(driver, dumpPID, automation.DefaultTimeouts, harness.PollSpec{})
		if err != nil {
			return err
		}
		defer session.Close()

		fetch := session.Root
		if dumpDesktop {
			fetch = session.Desktop
		}
		root, err := fetch()
		if err != nil {
			return err
		}
		logger := harness.NewLogger("debug", logFormat, cmd.OutOrStdout())
		stats := harness.DumpTree(logger, root)
		if stats.Errors > 0 {
			return fmt.Errorf("%d of %d elements could not be read", stats.Errors, stats.Nodes)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "uiprobe version %s\n", version)
	},
}
