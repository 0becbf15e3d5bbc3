package tui

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jask/contacts/internal/database"
	"github.com/jask/contacts/internal/database/repository"
	"github.com/jask/contacts/internal/router"
	"github.com/jask/contacts/internal/service"
	"github.com/jask/contacts/internal/watch"
)

type harness struct {
	t   *testing.T
	app *App
	svc *service.ContactService
}

func newHarness(t *testing.T, initial string, opts ...func(*Options)) *harness {
	t.Helper()
	db, err := database.Open(database.DriverPure, filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrationsWithDB(db, database.DriverPure))
	_, err = database.SeedDefaults(context.Background(), db)
	require.NoError(t, err)

	svc := &service.ContactService{Contacts: repository.NewContactRepo(db)}
	o := Options{
		Initial:       router.MustParse(initial),
		Logger:        zaptest.NewLogger(t),
		MarkdownStyle: "notty",
	}
	for _, fn := range opts {
		fn(&o)
	}
	h := &harness{t: t, app: New(context.Background(), svc, o), svc: svc}
	h.run(h.app.Init())
	return h
}

// messages runs cmd and returns the router messages it produced, flattening batches.
func messages(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch m := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, m...)
		case router.LoadedMsg, router.ActionMsg:
			out = append(out, m)
		}
	}
	return out
}

// run feeds cmd's router messages back into the app until nothing is left.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	pending := messages(cmd)
	for len(pending) > 0 {
		msg := pending[0]
		pending = pending[1:]
		_, next := h.app.Update(msg)
		pending = append(pending, messages(next)...)
	}
}

// send delivers msg without running the resulting command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.app.Update(msg)
	return cmd
}

func (h *harness) press(keys ...tea.KeyMsg) {
	h.t.Helper()
	for _, k := range keys {
		h.run(h.send(k))
	}
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	for _, r := range s {
		h.press(runeKey(r))
	}
}

func (h *harness) view() string { return ansi.Strip(h.app.View()) }

func (h *harness) location() string { return h.app.router.Location().String() }

func (h *harness) historyLen() int { return h.app.router.History().Len() }

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

var (
	keyEsc       = tea.KeyMsg{Type: tea.KeyEsc}
	keyEnter     = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab       = tea.KeyMsg{Type: tea.KeyTab}
	keyBackspace = tea.KeyMsg{Type: tea.KeyBackspace}
	keySave      = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func lastNames(cs []repository.Contact) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Last)
	}
	return out
}

func TestInitialLoadRendersListInStoreOrder(t *testing.T) {
	h := newHarness(t, "/")
	want := []string{"Allen", "Dijkstra", "Hamilton", "Hopper", "Knuth", "Liskov", "Lovelace", "Pike", "Thompson", "Turing"}
	if diff := cmp.Diff(want, lastNames(h.app.contacts())); diff != "" {
		t.Fatalf("sidebar order (-want +got):\n%s", diff)
	}

	view := h.view()
	prev := -1
	for _, last := range want {
		i := strings.Index(view, last)
		require.Greater(t, i, prev, "%s out of order", last)
		prev = i
	}
	require.Contains(t, view, "Ada Lovelace ★")
	require.Equal(t, "", h.app.SearchValue())
}

func TestFirstSearchPushesLaterSearchesReplace(t *testing.T) {
	h := newHarness(t, "/")
	require.Equal(t, 1, h.historyLen())

	h.press(runeKey('/'))
	h.typeText("h")
	require.Equal(t, "/?q=h", h.location())
	require.Equal(t, 2, h.historyLen())

	h.typeText("op")
	require.Equal(t, "/?q=hop", h.location())
	require.Equal(t, 2, h.historyLen())
	require.Equal(t, "hop", h.app.SearchValue())
	require.Equal(t, []string{"Hopper", "Thompson"}, lastNames(h.app.contacts()))

	h.press(keyBackspace, keyBackspace, keyBackspace)
	require.Equal(t, "/?q=", h.location())
	require.Equal(t, 2, h.historyLen())
	require.Len(t, h.app.contacts(), 10)
}

func TestBackAndForwardResyncSearchField(t *testing.T) {
	h := newHarness(t, "/")
	h.press(runeKey('/'))
	h.typeText("ada")
	h.press(keyEsc)

	h.press(runeKey('['))
	require.Equal(t, "/", h.location())
	require.Equal(t, "", h.app.SearchValue())
	require.Len(t, h.app.contacts(), 10)

	h.press(runeKey(']'))
	require.Equal(t, "/?q=ada", h.location())
	require.Equal(t, "ada", h.app.SearchValue())
	require.Equal(t, []string{"Lovelace"}, lastNames(h.app.contacts()))
}

func TestLatestSearchWins(t *testing.T) {
	h := newHarness(t, "/")
	h.press(runeKey('/'))

	first := h.send(runeKey('z'))
	second := h.send(runeKey('z'))
	require.True(t, h.app.Searching())

	for _, msg := range messages(second) {
		h.run(h.send(msg))
	}
	require.Equal(t, "/?q=zz", h.location())

	// the superseded search resolves last and changes nothing
	for _, msg := range messages(first) {
		h.run(h.send(msg))
	}
	require.Equal(t, "/?q=zz", h.location())
	require.Equal(t, "zz", h.app.SearchValue())
	require.Equal(t, 2, h.historyLen())
	require.NoError(t, h.app.router.Err())
	require.False(t, h.app.Searching())
}

func TestNoMatchesRendersEmptyState(t *testing.T) {
	h := newHarness(t, "/")
	h.press(runeKey('/'))
	h.typeText("zzzz")

	require.Empty(t, h.app.contacts())
	require.Contains(t, h.view(), emptyListLabel)
}

func TestSearchingAndDetailLoading(t *testing.T) {
	h := newHarness(t, "/")
	h.press(runeKey('/'))

	cmd := h.send(runeKey('a'))
	require.True(t, h.app.Searching())
	require.False(t, h.app.DetailLoading(), "searches do not dim the detail pane")
	h.run(cmd)
	require.False(t, h.app.Searching())

	h.press(keyEsc)
	cmd = h.send(keyEnter)
	require.False(t, h.app.Searching())
	require.True(t, h.app.DetailLoading())
	h.run(cmd)
	require.False(t, h.app.DetailLoading())
}

func TestDeleteFromContactPage(t *testing.T) {
	h := newHarness(t, "/")
	victim := h.app.contacts()[0]

	h.press(keyEnter)
	require.Equal(t, "/contacts/"+victim.ID, h.location())
	require.Contains(t, h.view(), "Frances Allen")

	h.press(runeKey('d'))
	require.Equal(t, "/", h.location())
	require.Equal(t, 3, h.historyLen())
	require.NoError(t, h.app.router.Err())

	for _, c := range h.app.contacts() {
		require.NotEqual(t, victim.ID, c.ID)
	}
	all, err := h.svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 9)
	_, err = h.svc.Get(context.Background(), victim.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteUnknownContactShowsErrorBoundary(t *testing.T) {
	h := newHarness(t, "/")
	h.run(h.app.router.Submit(contactLocation("nope", "/destroy"), router.MethodPost, nil, router.NavigateOptions{}))

	view := h.view()
	require.Contains(t, view, "Oops!")
	require.Contains(t, view, "500")
	require.Contains(t, view, "contact not found")
	// the sidebar keeps its last list
	require.Len(t, h.app.contacts(), 10)
}

func TestUnknownContactIs404(t *testing.T) {
	h := newHarness(t, "/contacts/nope")
	view := h.view()
	require.Contains(t, view, "Oops!")
	require.Contains(t, view, "404")
	require.Contains(t, view, `Contact "nope" not found`)
}

func TestCreateEditAndSave(t *testing.T) {
	h := newHarness(t, "/")
	h.press(runeKey('n'))

	leaf, ok := h.app.router.Leaf()
	require.True(t, ok)
	require.Equal(t, RouteEdit, leaf.Route.ID)
	require.Equal(t, focusForm, h.app.focus)
	require.NotNil(t, h.app.form)
	id := h.app.form.id
	require.Len(t, h.app.contacts(), 11)
	require.Contains(t, h.view(), NoNameLabel)

	h.typeText("Jo")
	h.press(keyTab)
	h.typeText("Doe")
	h.press(keySave)

	require.Equal(t, "/contacts/"+id, h.location())
	require.Equal(t, focusList, h.app.focus)
	require.Nil(t, h.app.form)
	c, err := h.svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Jo", c.First)
	require.Equal(t, "Doe", c.Last)
	require.Contains(t, h.view(), "Jo Doe")
}

func TestEditCancelGoesBack(t *testing.T) {
	h := newHarness(t, "/")
	id := h.app.contacts()[0].ID

	h.press(runeKey('e'))
	require.Equal(t, "/contacts/"+id+"/edit", h.location())
	require.Equal(t, "Frances", h.app.form.values().Get("first"))

	h.press(keyEsc)
	require.Equal(t, "/", h.location())
	require.Equal(t, focusList, h.app.focus)

	c, err := h.svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Frances", c.First)
}

func TestFavoriteToggleRevalidatesInPlace(t *testing.T) {
	h := newHarness(t, "/")
	target := h.app.contacts()[0]
	require.False(t, target.Favorite)

	h.press(runeKey('f'))
	require.Equal(t, "/", h.location())
	require.Equal(t, 1, h.historyLen())
	require.True(t, h.app.contacts()[0].Favorite)
	require.Contains(t, h.view(), "Frances Allen ★")

	h.press(runeKey('f'))
	require.False(t, h.app.contacts()[0].Favorite)
}

func TestStoreChangeRevalidates(t *testing.T) {
	h := newHarness(t, "/")
	gone := h.app.contacts()[1]
	require.NoError(t, h.svc.Delete(context.Background(), gone.ID))
	require.Len(t, h.app.contacts(), 10)

	h.run(h.send(watch.ChangedMsg{Path: "contacts.db"}))
	require.Len(t, h.app.contacts(), 9)
	require.Equal(t, 1, h.historyLen())
}

func TestQuitReportsCommittedLocation(t *testing.T) {
	var got router.Location
	h := newHarness(t, "/about", func(o *Options) {
		o.OnQuit = func(l router.Location) { got = l }
	})
	require.Contains(t, h.view(), "About")

	cmd := h.send(runeKey('q'))
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
	require.Equal(t, "/about", got.String())
}

func TestContactWithPercentInID(t *testing.T) {
	h := newHarness(t, "/")
	ctx := context.Background()
	require.NoError(t, h.svc.Contacts.Upsert(ctx, repository.Contact{ID: "50%off", First: "Half", Last: "Price"}))
	h.run(h.app.router.Revalidate())

	idx := slices.IndexFunc(h.app.contacts(), func(c repository.Contact) bool { return c.ID == "50%off" })
	require.GreaterOrEqual(t, idx, 0)
	h.app.cursor = idx

	h.press(keyEnter)
	require.NoError(t, h.app.router.Err())
	require.Equal(t, "/contacts/50%25off", h.location())
	require.Contains(t, h.view(), "Half Price")

	h.press(runeKey('e'))
	require.NoError(t, h.app.router.Err())
	require.NotNil(t, h.app.form)
	require.Equal(t, "50%off", h.app.form.id)
	h.press(keySave)
	require.NoError(t, h.app.router.Err())
	require.Equal(t, "/contacts/50%25off", h.location())

	h.press(runeKey('d'))
	require.NoError(t, h.app.router.Err())
	require.Equal(t, "/", h.location())
	_, err := h.svc.Get(ctx, "50%off")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestOwnWriteDoesNotRevalidateTwice(t *testing.T) {
	h := newHarness(t, "/")
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h.app.now = func() time.Time { return clock }

	h.press(runeKey('f'))
	require.True(t, h.app.contacts()[0].Favorite)

	clock = clock.Add(300 * time.Millisecond)
	require.Nil(t, h.send(watch.ChangedMsg{Path: "contacts.db"}))
	require.False(t, h.app.router.Revalidating())

	clock = clock.Add(2 * time.Second)
	cmd := h.send(watch.ChangedMsg{Path: "contacts.db"})
	require.NotNil(t, cmd)
	require.True(t, h.app.router.Revalidating())
	h.run(cmd)
	require.False(t, h.app.router.Revalidating())
}
