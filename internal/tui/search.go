package tui

import (
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/contacts/internal/router"
)

// searchSync is the one-way flow from the committed location into the search
// field. Keystrokes never pass through it: they leave as navigations, and the
// field is only written when a navigation settles.
type searchSync struct {
	committed string
	has       bool
}

// settle records the committed query and returns the text the field must show,
// which is empty when q is absent.
func (s *searchSync) settle(q string, has bool) string {
	s.committed, s.has = q, has
	if !has {
		return ""
	}
	return q
}

// replace reports whether the next search should replace the current history
// entry. Only the first search, made while no query is committed, pushes.
func (s searchSync) replace() bool { return s.has }

// submitSearch sends the field value as a GET submission of the search form.
func (a *App) submitSearch() tea.Cmd {
	form := url.Values{"q": {a.search.Value()}}
	return a.router.Submit(router.Location{Path: "/"}, router.MethodGet, form, router.NavigateOptions{
		Replace: a.sync.replace(),
	})
}

// Searching reports whether a navigation carrying a non-empty q is pending.
func (a *App) Searching() bool {
	return a.router.Navigation().Targets("q")
}

// DetailLoading reports whether the detail pane should show its loading state.
// Searches have their own spinner, so they do not dim the detail pane.
func (a *App) DetailLoading() bool {
	return a.router.Navigation().State == router.Loading && !a.Searching()
}

// SearchValue is the text currently shown in the search field.
func (a *App) SearchValue() string { return a.search.Value() }
