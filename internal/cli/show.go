// internal/cli/show.go
package benchviz

import (
	"github.com/mwiater/benchviz/internal/appconfig"
	"github.com/spf13/cobra"
)

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display information related to benchviz.`,
}

// showConfigCmd implements 'show config', which prints the effective configuration.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		file := ""
		if cfg != nil {
			file = cfg.ConfigPath
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, cfg)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
