package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/jask/contacts/internal/database/repository"
)

// NoNameLabel stands in for contacts with neither a first nor a last name.
const NoNameLabel = "No Name"

const (
	favoriteMarker = "★"
	emptyListLabel = "No contacts"
)

// contactName returns "First Last" when either name is set.
func contactName(c repository.Contact) (string, bool) {
	if c.First == "" && c.Last == "" {
		return "", false
	}
	return strings.TrimSpace(c.First + " " + c.Last), true
}

// contactLabel is the unstyled text of a list entry.
func contactLabel(c repository.Contact) string {
	name, ok := contactName(c)
	if !ok {
		name = NoNameLabel
	}
	if c.Favorite {
		name += " " + favoriteMarker
	}
	return name
}

type rowState struct {
	activeID  string
	pendingID string
	cursor    int
	focused   bool
}

// renderContactList renders one line per contact, in the order given.
func renderContactList(contacts []repository.Contact, st rowState, width int) string {
	if len(contacts) == 0 {
		return emptyStyle.Render(emptyListLabel)
	}
	rows := make([]string, 0, len(contacts))
	for i, c := range contacts {
		rows = append(rows, renderRow(c, i, st, width))
	}
	return strings.Join(rows, "\n")
}

func renderRow(c repository.Contact, i int, st rowState, width int) string {
	name, ok := contactName(c)
	var label string
	if ok {
		label = name
	} else {
		label = noNameStyle.Render(NoNameLabel)
	}
	if c.Favorite {
		label += " " + favoriteStyle.Render(favoriteMarker)
	}
	prefix := "  "
	if st.focused && i == st.cursor {
		prefix = "> "
	}
	style := rowStyle
	switch {
	case c.ID == st.activeID:
		style = rowActiveStyle
	case c.ID == st.pendingID:
		style = rowPendingStyle
	case st.focused && i == st.cursor:
		style = rowCursorStyle
	}
	if width > 0 {
		label = ansi.Truncate(label, max(1, width-len(prefix)), "…")
	}
	return prefix + style.Render(label)
}
