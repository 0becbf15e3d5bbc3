package tui

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/contacts/internal/database/repository"
	"github.com/jask/contacts/internal/router"
)

func renderIndex() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Contacts"))
	b.WriteString("\n\n")
	b.WriteString("Pick someone from the list, or press ")
	b.WriteString(linkStyle.Render("n"))
	b.WriteString(" to add a contact.\n")
	b.WriteString(mutedStyle.Render("Press / to search, ? for help."))
	return b.String()
}

func renderAbout() string {
	lines := []string{
		headingStyle.Render("About"),
		"",
		"A small address book. Every screen is a location with its own",
		"history entry, so [ and ] walk back and forward through searches",
		"and contacts alike.",
		"",
		mutedStyle.Render("Data lives in a local sqlite file and is reloaded when it changes on disk."),
	}
	return strings.Join(lines, "\n")
}

// markdown renders contact notes, caching the renderer per wrap width.
type markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

func (m *markdown) render(src string, width int) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(max(20, width)),
		)
		if err != nil {
			return src
		}
		m.renderer, m.width = r, width
	}
	out, err := m.renderer.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}

func (a *App) renderContact(c repository.Contact, width int) string {
	var b strings.Builder
	name, ok := contactName(c)
	if ok {
		b.WriteString(headingStyle.Render(name))
	} else {
		b.WriteString(noNameStyle.Render(NoNameLabel))
	}
	if c.Favorite {
		b.WriteString(" " + favoriteStyle.Render(favoriteMarker))
	} else {
		b.WriteString(" " + mutedStyle.Render("☆"))
	}
	b.WriteString("\n\n")
	if c.Twitter != "" {
		b.WriteString(labelStyle.Render("Twitter") + linkStyle.Render(c.Twitter) + "\n")
	}
	if c.Avatar != "" {
		b.WriteString(labelStyle.Render("Avatar") + c.Avatar + "\n")
	}
	if notes := a.md.render(c.Notes, width); notes != "" {
		b.WriteString("\n" + notes + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("e edit · f favorite · d delete"))
	return b.String()
}

// renderError is the error boundary shared by every route.
func renderError(err error) string {
	status := router.StatusOf(err)
	msg := err.Error()
	var resp *router.Response
	if errors.As(err, &resp) {
		msg = resp.Error()
	}
	lines := []string{
		errorStyle.Render("Oops!"),
		"",
		"Sorry, an unexpected error has occurred.",
		mutedStyle.Render(fmt.Sprintf("%d %s", status, http.StatusText(status))),
		msg,
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
