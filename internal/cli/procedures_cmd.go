package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tetsunavi/tetsunavi/internal/cli/formatter"
	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/view"
)

var errNoDocument = errors.New("この手続きの書類テンプレートはありません")

func groupsOf(list *contract.ProcedureListResponse) []view.VisitGroup {
	return view.GroupByVisitLocation(list.Procedures)
}

func newProceduresCmd(app *App) *cobra.Command {
	var (
		flags   filterFlags
		grouped bool
	)

	cmd := &cobra.Command{
		Use:     "procedures",
		Aliases: []string{"list", "ls"},
		Short:   "手続きリストを表示する (初回は自動で生成)",
		Example: `  tetsunavi procedures
  tetsunavi procedures --category 行政 --status todo
  tetsunavi procedures --group`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := resolveSession(cmd.Context(), app)
			if err != nil {
				return err
			}
			return loadAndPrint(cmd.Context(), app, cmd.OutOrStdout(), cmd.ErrOrStderr(), sid, flags.filter(), grouped)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVarP(&grouped, "group", "g", false, "窓口別にまとめて表示する")

	return cmd
}

func newProcedureCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "procedure <procedure-id>",
		Short: "手続きの詳細 (必要書類・窓口・手順) を表示する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := resolveSession(cmd.Context(), app)
			if err != nil {
				return err
			}
			d, err := app.Procedures.Detail(cmd.Context(), sid, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatProcedureDetail(d))
			if _, ok := view.DocumentFor(d.Procedure); ok {
				fmt.Fprintln(out, formatter.Dim("書類プレビュー: tetsunavi procedure document "+d.ID))
			}
			return nil
		},
	}

	cmd.AddCommand(newDocumentCmd(app))
	return cmd
}

func newDocumentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "document <procedure-id>",
		Aliases: []string{"doc"},
		Short:   "届出書類をセッション情報で自動入力してプレビューする",
		Example: "  tetsunavi procedure document tenshutsu",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sid, err := resolveSession(ctx, app)
			if err != nil {
				return err
			}
			d, err := app.Procedures.Detail(ctx, sid, args[0])
			if err != nil {
				return err
			}
			if _, ok := view.DocumentFor(d.Procedure); !ok {
				return fmt.Errorf("%w: %s", errNoDocument, d.Title)
			}
			sess, err := app.Sessions.Get(ctx, sid)
			if err != nil {
				return err
			}
			form := view.BuildMoveOutForm(*sess, *d, app.now())
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDocument(form))
			return nil
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <procedure-id>...",
		Short: "手続きを完了にする",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setCompleted(cmd.Context(), app, cmd.OutOrStdout(), args, true)
		},
	}
}

func newUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <procedure-id>...",
		Short: "手続きを未完了に戻す",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setCompleted(cmd.Context(), app, cmd.OutOrStdout(), args, false)
		},
	}
}

// setCompleted toggles each procedure in order, stopping at the first
// failure, then prints the refreshed progress. The checklist is generated
// first if the session has none yet.
func setCompleted(ctx context.Context, app *App, out io.Writer, ids []string, done bool) error {
	sid, err := resolveSession(ctx, app)
	if err != nil {
		return err
	}

	list, _, err := app.Procedures.Load(ctx, sid, contract.ProcedureFilter{})
	if err != nil {
		return err
	}
	titles := make(map[string]string, len(list.Procedures))
	for _, p := range list.Procedures {
		titles[p.ID] = p.Title
	}

	for _, id := range ids {
		if _, err := app.Procedures.SetCompleted(ctx, sid, id, done); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		title := titles[id]
		if title == "" {
			title = id
		}
		fmt.Fprintln(out, formatter.FormatCompletion(title, done))
	}

	list, err = app.Procedures.List(ctx, sid, contract.ProcedureFilter{})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, formatter.RenderProgressSummary(view.Progress(list.CompletedCount, list.TotalCount), 20))
	return nil
}
