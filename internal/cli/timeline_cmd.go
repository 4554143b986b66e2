package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tetsunavi/tetsunavi/internal/cli/formatter"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

func newTimelineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "引越し日を基準にしたスケジュールを表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := resolveSession(cmd.Context(), app)
			if err != nil {
				return err
			}
			entries, err := app.Timeline.Merged(cmd.Context(), sid)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTimeline(entries, app.now()))
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "スケジュールをカレンダーファイル (.ics) に書き出す",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sid, err := resolveSession(ctx, app)
			if err != nil {
				return err
			}
			target := domain.CoalesceStr(dir, app.Config.ExportDir, ".")
			path, err := app.Timeline.Export(ctx, sid, target, app.now())
			if err != nil {
				return err
			}
			tl, err := app.Timeline.Get(ctx, sid)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatExported(path, countEvents(tl)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "書き出し先ディレクトリ (既定: 設定の export_dir)")

	return cmd
}

func countEvents(tl *domain.Timeline) int {
	n := 0
	for _, item := range tl.Items {
		n += len(item.Procedures)
	}
	return n
}
