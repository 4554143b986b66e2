package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tetsunavi/tetsunavi/internal/cli/formatter"
	"github.com/tetsunavi/tetsunavi/internal/contract"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

func newInterviewCmd(app *App) *cobra.Command {
	var (
		rawAnswers []string
		list       bool
		noGenerate bool
	)

	cmd := &cobra.Command{
		Use:   "interview",
		Short: "ヒアリングに回答して手続きリストを生成する",
		Example: `  tetsunavi interview
  tetsunavi interview --list
  tetsunavi interview --answer household=単身 --answer car=いいえ --answer pets=犬,猫`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			sid, err := resolveSession(ctx, app)
			if err != nil {
				return err
			}
			qs, err := app.Sessions.Questions(ctx, sid)
			if err != nil {
				return err
			}

			var answers []domain.Answer
			switch {
			case list:
				fmt.Fprintln(out, formatter.FormatQuestions(qs))
				return nil
			case len(rawAnswers) > 0:
				if answers, err = parseAnswerFlags(qs.Questions, rawAnswers); err != nil {
					return err
				}
			case app.interactive():
				form, collect := interviewForm(qs.Questions)
				if err := form.Run(); err != nil {
					return err
				}
				answers = collect()
			default:
				fmt.Fprintln(out, formatter.FormatQuestions(qs))
				return nil
			}

			if _, err := app.Sessions.SubmitAnswers(ctx, sid, answers); err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.StyleGreen.Render("✔ ")+"ヒアリングが完了しました")
			if noGenerate {
				return nil
			}
			return loadAndPrint(ctx, app, out, cmd.ErrOrStderr(), sid, contract.ProcedureFilter{}, false)
		},
	}

	cmd.Flags().StringArrayVarP(&rawAnswers, "answer", "a", nil, "回答 (質問ID=値)。複数選択はカンマ区切り")
	cmd.Flags().BoolVar(&list, "list", false, "質問と質問IDを表示する")
	cmd.Flags().BoolVar(&noGenerate, "no-generate", false, "回答後に手続きリストを生成しない")

	return cmd
}

// loadAndPrint loads the checklist, generating it on first use, and prints
// it as a table or as visit groups.
func loadAndPrint(ctx context.Context, app *App, out, errOut io.Writer, sid string, filter contract.ProcedureFilter, grouped bool) error {
	stop := func() {}
	if app.interactive() {
		stop = formatter.StartSpinner(errOut, "読み込み中...")
	}
	list, generated, err := app.Procedures.Load(ctx, sid, filter)
	stop()
	if err != nil {
		return err
	}
	if generated {
		fmt.Fprintln(out, formatter.StyleGreen.Render("✔ ")+fmt.Sprintf("手続きリストを生成しました (%d件)", list.TotalCount))
	}
	if grouped {
		fmt.Fprintln(out, formatter.FormatVisitGroups(groupsOf(list)))
		return nil
	}
	fmt.Fprintln(out, formatter.FormatProcedureList(list, filter))
	return nil
}
