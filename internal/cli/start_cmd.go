package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tetsunavi/tetsunavi/internal/cli/formatter"
	"github.com/tetsunavi/tetsunavi/internal/contract"
)

func newStartCmd(app *App) *cobra.Command {
	var req contract.CreateSessionRequest

	cmd := &cobra.Command{
		Use:   "start",
		Short: "引越し情報を入力して新しいセッションを開始する",
		Example: `  tetsunavi start
  tetsunavi start --from-pref 東京都 --from-city 世田谷区 --to-pref 神奈川県 --to-city 横浜市 --date 2026-04-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			incomplete := req.MoveFrom.Prefecture == "" || req.MoveFrom.City == "" ||
				req.MoveTo.Prefecture == "" || req.MoveTo.City == "" || req.MoveDate == ""
			if incomplete && app.interactive() {
				if err := intakeForm(&req, app.now()).Run(); err != nil {
					return err
				}
			}

			sess, err := app.Sessions.Create(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatSession(sess, app.now()))
			fmt.Fprintln(out, formatter.Dim("次はヒアリングに回答してください: ")+formatter.StyleBlue.Render("tetsunavi interview"))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.MoveFrom.Prefecture, "from-pref", "", "引越し元の都道府県")
	cmd.Flags().StringVar(&req.MoveFrom.City, "from-city", "", "引越し元の市区町村")
	cmd.Flags().StringVar(&req.MoveTo.Prefecture, "to-pref", "", "引越し先の都道府県")
	cmd.Flags().StringVar(&req.MoveTo.City, "to-city", "", "引越し先の市区町村")
	cmd.Flags().StringVar(&req.MoveDate, "date", "", "引越し予定日 (YYYY-MM-DD)")

	return cmd
}
