package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tetsunavi/tetsunavi/internal/cli/formatter"
)

var errChatNeedsMessage = errors.New("メッセージを指定してください (例: tetsunavi chat 転入届に必要なものは？)")

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "手続きについてAIアシスタントに質問する",
		Long: "メッセージを渡すと1回だけ質問して回答を表示します。" +
			"端末で引数なしに実行すると対話モードになります。",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sid, err := resolveSession(ctx, app)
			if err != nil {
				return err
			}
			conv := app.Chat.Conversation(sid)

			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				if !app.interactive() {
					return errChatNeedsMessage
				}
				_, err := tea.NewProgram(newChatModel(ctx, conv), tea.WithContext(ctx)).Run()
				return err
			}

			out := cmd.OutOrStdout()
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "考え中...")
			}
			reply, err := conv.Send(ctx, text)
			stop()
			if reply != nil {
				fmt.Fprintln(out, formatter.FormatAssistantMessage(reply.Content))
			}
			if err != nil {
				return err
			}
			if s := formatter.FormatSuggestions(conv.Suggestions()); s != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}
}
