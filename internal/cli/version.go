package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version задается при сборке через -ldflags "-X".
var Version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print termkit version",
	Run: func(cmd *cobra.Command, args []string) {
		// без оформления, для скриптов
		fmt.Fprintln(con.Out, Version)
	},
}
