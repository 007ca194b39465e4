package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(paintCmd)
}

var paintCmd = &cobra.Command{
	Use:   "paint TEMPLATE [key=value...]",
	Short: "Render a colour template",
	Long: `Render a colour template such as "{success.bold Deployed {{name}}}".
Variables given as key=value replace {{key}} placeholders literally.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := parseVars(args[1:])
		if err != nil {
			return err
		}
		out, err := con.Colors.Execute(args[0], vars)
		if err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}
		fmt.Fprintln(con.Out, out)
		return nil
	},
}

func parseVars(pairs []string) (map[string]interface{}, error) {
	vars := make(map[string]interface{}, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid variable %q, expected key=value", p)
		}
		vars[strings.TrimSpace(k)] = v
	}
	return vars, nil
}
