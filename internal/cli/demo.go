package cli

import (
	"fmt"
	stdlog "log"
	"os"

	"github.com/spf13/cobra"

	"github.com/rx3lixir/termkit/internal/lib/logger"
)

func init() {
	rootCmd.AddCommand(demoCmd)
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Log one entry per level and show captured global output",
	RunE: func(cmd *cobra.Command, args []string) error {
		l := con.Logger
		l.Info("Logger ready", "verbosity", l.Level(), "threshold", logger.LevelName(logger.Threshold(l.Level())))
		l.Trace("Trace entry")
		l.Debug("Debug entry")
		l.Success("✅ Success entry")
		l.Warn("⭕ Warning entry")
		l.Error("Error entry", "error", "something broke")

		// мимо API логгера, но все равно форматируется
		fmt.Println("plain fmt.Println")
		fmt.Fprintln(os.Stderr, "plain write to stderr")
		stdlog.Println("standard library log")

		msg, err := con.Colors.Sprintf("{success done} at verbosity {bold %d}", l.Level())
		if err != nil {
			return err
		}
		l.Info(msg)
		return nil
	},
}
