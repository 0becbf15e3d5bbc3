package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/contacts/internal/prefs"
	"github.com/jask/contacts/internal/router"
	"github.com/jask/contacts/internal/tui"
	"github.com/jask/contacts/internal/watch"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "contacts [location]",
	Short: "A terminal address book",
	Long: `Browse, search and edit contacts stored in a local sqlite database.

The optional location opens a page directly, for example:
  contacts /contacts/<id>
  contacts "/?q=ada"`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.AddCommand(listCmd, deleteCmd, seedCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	initial, sessionPath := startLocation(st, args)

	opts := tui.Options{
		Initial:       initial,
		Logger:        st.log.Named("tui"),
		MarkdownStyle: st.cfg.UI.MarkdownStyle,
		OnQuit: func(loc router.Location) {
			if sessionPath == "" {
				return
			}
			if err := prefs.SaveSession(sessionPath, prefs.Session{Location: loc.String(), SavedAt: time.Now().UTC()}); err != nil {
				st.log.Warn("save session", zap.Error(err))
			}
		},
	}
	if st.cfg.UI.Watch {
		w, err := watch.New(st.cfg.Database.Path, 200*time.Millisecond, st.log.Named("watch"))
		if err != nil {
			st.log.Warn("watch disabled", zap.Error(err))
		} else {
			defer w.Close()
			opts.Watcher = w
		}
	}

	p := tea.NewProgram(tui.New(ctx, st.svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// startLocation picks the first history entry: the argument, then the saved
// session, then "/". The session path is empty when sessions are off.
func startLocation(st *store, args []string) (router.Location, string) {
	root := router.Location{Path: "/"}
	if len(args) == 1 {
		loc, err := router.Parse(args[0])
		if err == nil {
			return loc, sessionFile(st)
		}
		st.log.Warn("ignoring location argument", zap.String("arg", args[0]), zap.Error(err))
	}
	path := sessionFile(st)
	if path == "" {
		return root, ""
	}
	s, err := prefs.LoadSession(path)
	if err != nil {
		st.log.Warn("load session", zap.Error(err))
		return root, path
	}
	if s == nil {
		return root, path
	}
	loc, err := router.Parse(s.Location)
	if err != nil {
		return root, path
	}
	st.log.Debug("restoring session", zap.String("location", s.Location), zap.Time("saved_at", s.SavedAt))
	return loc, path
}

func sessionFile(st *store) string {
	if !st.cfg.UI.RestoreSession {
		return ""
	}
	path, err := prefs.SessionPath()
	if err != nil {
		st.log.Warn("session path", zap.Error(err))
		return ""
	}
	return path
}
