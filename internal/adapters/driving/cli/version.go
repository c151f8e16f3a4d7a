package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("interview-pilot version %s\n", version)
		cmd.Printf("Commit: %s\n", commit)
		cmd.Printf("Built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
