package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rx3lixir/termkit/internal/ui/playground"
)

func init() {
	rootCmd.AddCommand(paletteCmd, playgroundCmd)
}

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "List palette styles",
	Run: func(cmd *cobra.Command, args []string) {
		p := con.Colors.Palette()
		for _, name := range p.Names() {
			fmt.Fprintf(con.Out, "  %-16s %s\n", name, p[name]("The quick brown fox"))
		}
	},
}

var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Type a template and preview it live",
	RunE: func(cmd *cobra.Command, args []string) error {
		return playground.Run(con.Colors, con.Out)
	},
}
