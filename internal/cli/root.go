package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/tetsunavi/tetsunavi/internal/config"
	"github.com/tetsunavi/tetsunavi/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Sessions   service.SessionService
	Procedures service.ProcedureService
	Timeline   service.TimelineService
	Chat       service.ChatService

	Config config.Config

	// Now is the clock used for countdowns, date validation and calendar
	// stamps. Nil means time.Now.
	Now func() time.Time

	// IsInteractive reports whether forms and the chat view may take over
	// the terminal. Nil means never.
	IsInteractive func() bool

	sessionID string
}

func (app *App) now() time.Time {
	if app.Now == nil {
		return time.Now()
	}
	return app.Now()
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

// NewRootCmd creates the top-level "tetsunavi" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tetsunavi",
		Short:         "引越し手続きナビゲーター",
		Long:          "引越し情報とヒアリングの回答から、必要な手続き・期限・窓口をまとめて案内します。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&app.sessionID, "session", "s", "",
		"対象のセッションID (省略時は最後に使ったセッション)")

	root.AddCommand(
		newStartCmd(app),
		newSessionCmd(app),
		newInterviewCmd(app),
		newProceduresCmd(app),
		newProcedureCmd(app),
		newDoneCmd(app),
		newUndoCmd(app),
		newTimelineCmd(app),
		newExportCmd(app),
		newChatCmd(app),
		newConfigCmd(app),
	)

	return root
}
