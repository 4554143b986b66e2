package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tetsunavi/tetsunavi/internal/cli/formatter"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "設定を表示する",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "読み込まれた設定を YAML で表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(app.Config)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("設定", string(data)))
			return nil
		},
	})

	return cmd
}
