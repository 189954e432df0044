// internal/cli/root.go
package benchviz

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/benchviz/internal/appconfig"
	"github.com/mwiater/benchviz/internal/chart"
	"github.com/mwiater/benchviz/internal/logging"
	"github.com/mwiater/benchviz/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const priceFlag = "instance-price-per-hour"

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// flag name -> viper key
var (
	stringFlags = map[string]string{
		"output-dir":      "outputDir",
		"format":          "format",
		"analysis-output": "analysisOutput",
		"log-file":        "logFile",
	}
	floatFlags = map[string]string{
		"width":  "width",
		"height": "height",
	}
	boolFlags = map[string]string{
		"debug":    "debug",
		"no-color": "noColor",
	}
)

// rootCmd represents the base command: one report over the given directories.
var rootCmd = &cobra.Command{
	Use:   "benchviz [dirs...]",
	Short: "benchviz charts and summarizes LLM serving benchmark results",
	Long: `benchviz scans one or more directories of JSON benchmark results, plots
throughput against per-token latency (and, with an instance price, cost per
million tokens), and prints the best-throughput run of every directory.`,
	Args: cobra.MinimumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := ensureConfigLoaded(cmd)
		if err != nil {
			return err
		}

		// Unset flags mirror the config value so both report the final value.
		for name, key := range stringFlags {
			if f := cmd.Flag(name); f != nil && !f.Changed {
				_ = f.Value.Set(viper.GetString(key))
			}
		}
		for name, key := range floatFlags {
			if f := cmd.Flag(name); f != nil && !f.Changed {
				_ = f.Value.Set(strconv.FormatFloat(viper.GetFloat64(key), 'g', -1, 64))
			}
		}
		for name, key := range boolFlags {
			if f := cmd.Flag(name); f != nil && !f.Changed {
				_ = f.Value.Set(strconv.FormatBool(viper.GetBool(key)))
			}
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = loaded

		// The price is optional with no neutral default, so it is not bound to
		// viper: an explicit flag wins, otherwise the config value (or nil).
		if f := cmd.Flag(priceFlag); f != nil && f.Changed {
			price, err := strconv.ParseFloat(f.Value.String(), 64)
			if err != nil {
				return fmt.Errorf("invalid --%s: %w", priceFlag, err)
			}
			cfg.InstancePricePerHour = &price
		}

		if err := cfg.Validate(); err != nil {
			return err
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			cfg = &appconfig.Config{}
		}
		width, height := cfg.ChartSize()
		logging.LogEvent("[RUN] dirs=%v format=%s outputDir=%s priceSupplied=%t", args, cfg.ChartFormat(), cfg.OutputDirectory(), cfg.PriceSupplied())

		_, err := report.Run(report.Options{
			Dirs:         args,
			PricePerHour: cfg.InstancePricePerHour,
			Chart: chart.Options{
				OutputDir: cfg.OutputDirectory(),
				Format:    cfg.ChartFormat(),
				Width:     width,
				Height:    height,
			},
			AnalysisPath: cfg.AnalysisOutput,
			Debug:        cfg.Debug,
			NoColor:      cfg.NoColor,
		}, cmd.OutOrStdout())
		if err != nil {
			logging.LogEvent("[RUN] failed: %v", err)
		}
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = versionString()

	if err := rootCmd.Execute(); err != nil {
		_ = logging.Close()
		os.Exit(1)
	}
	_ = logging.Close()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/benchviz.json)")

	flags.Float64(priceFlag, 0, "hourly instance price in dollars; enables the cost chart")
	flags.String("output-dir", "", "directory charts are written to (default \".\")")
	flags.String("format", "", "chart format: png, svg or pdf (default \"png\")")
	flags.Float64("width", 0, "chart width in inches (default 10)")
	flags.Float64("height", 0, "chart height in inches (default 6)")
	flags.String("analysis-output", "", "write records, series and summaries to this JSON file")
	flags.String("log-file", "", "path to the log file (default \"benchviz.log\")")
	flags.Bool("debug", false, "dump parsed records to the console")
	flags.Bool("no-color", false, "disable colored console output")

	for _, m := range []map[string]string{stringFlags, floatFlags, boolFlags} {
		for name, key := range m {
			_ = viper.BindPFlag(key, flags.Lookup(name))
		}
	}
}

// initConfig points viper at the config file selected by --config.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded validates and reads the config file, returning its path.
// A missing file is only an error when --config was given explicitly.
func ensureConfigLoaded(cmd *cobra.Command) (string, error) {
	if cfgFile == "" {
		return "", nil
	}
	if _, err := os.Stat(cfgFile); err != nil {
		explicit := false
		if f := cmd.Flag("config"); f != nil {
			explicit = f.Changed
		}
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return "", nil
		}
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := appconfig.Load(cfgFile); err != nil {
		return "", err
	}
	if err := viper.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfgFile, nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)
}
