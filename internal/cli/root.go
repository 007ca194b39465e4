package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rx3lixir/termkit/internal/config/appconfig"
	"github.com/rx3lixir/termkit/internal/console"
)

var (
	configPath string
	levelFlag  string

	// con создается в PersistentPreRunE и закрывается в Execute.
	con *console.Console
)

var rootCmd = &cobra.Command{
	Use:   "termkit",
	Short: "termkit - shared console logger and colour templates",
	Long:  "termkit sets up a leveled console logger that captures global output, plus a colour template helper.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c, err := console.Init(*cfg, os.Stdout)
		if err != nil {
			return err
		}
		con = c
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to TOML config file")
	rootCmd.PersistentFlags().StringVarP(&levelFlag, "level", "l", "", "Log verbosity (overrides LOG_LEVEL)")
}

func loadConfig() (*appconfig.AppConfig, error) {
	cfg, err := appconfig.LoadAppConfig(&appconfig.TOMLLoader{}, configPath)
	if err != nil {
		return nil, err
	}
	if levelFlag != "" {
		level, err := appconfig.ParseLevel(levelFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to parse --level: %w", err)
		}
		cfg.Level = level
	}
	return cfg, nil
}

// Execute запускает CLI.
func Execute() {
	err := rootCmd.Execute()
	if con != nil {
		if err != nil {
			con.Logger.Error("Command failed", "error", err)
		}
		con.Close()
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if err != nil {
		os.Exit(1)
	}
}
