package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &Config{}
	}
	width, height := cfg.ChartSize()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Output Dir:      %s\n", cfg.OutputDirectory())
	fmt.Fprintf(out, "  Chart Format:    %s\n", cfg.ChartFormat())
	fmt.Fprintf(out, "  Chart Size:      %gx%g in\n", width, height)
	if cfg.PriceSupplied() {
		fmt.Fprintf(out, "  Price Per Hour:  %g\n", *cfg.InstancePricePerHour)
	} else {
		fmt.Fprintln(out, "  Price Per Hour:  (not set)")
	}
	if cfg.AnalysisOutput != "" {
		fmt.Fprintf(out, "  Analysis Output: %s\n", cfg.AnalysisOutput)
	}
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  No Color:        %v\n", cfg.NoColor)
}
