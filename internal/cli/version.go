package benchviz

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the benchviz version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "benchviz %s\n", versionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
