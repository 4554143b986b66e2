package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tetsunavi/tetsunavi/internal/cli/formatter"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "保存されたセッションを管理する",
	}

	cmd.AddCommand(
		newSessionShowCmd(app),
		newSessionListCmd(app),
		newSessionUseCmd(app),
		newSessionForgetCmd(app),
	)

	return cmd
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "現在のセッションを表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := resolveSession(cmd.Context(), app)
			if err != nil {
				return err
			}
			sess, err := app.Sessions.Get(cmd.Context(), sid)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(sess, app.now()))
			return nil
		},
	}
}

func newSessionListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "このマシンで使ったセッションを一覧表示する",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Sessions.Bookmarks(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBookmarks(list, app.now()))
			return nil
		},
	}
}

func newSessionUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <session-id>",
		Short: "操作対象のセッションを切り替える",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.Sessions.Use(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n",
				formatter.StyleGreen.Render("▶"), b.SessionID, formatter.Dim(b.Route()))
			return nil
		},
	}
}

func newSessionForgetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "forget <session-id>",
		Short: "セッションをこのマシンの一覧から削除する",
		Long:  "ローカルの一覧とキャッシュから削除します。サーバー上のセッションは削除されません。",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && app.interactive() {
				ok, err := confirm(fmt.Sprintf("セッション %s を一覧から削除しますか？", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			if err := app.Sessions.Forget(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Dim("削除しました:"), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "確認せずに削除する")

	return cmd
}
