package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/contacts/internal/database/repository"
	"github.com/jask/contacts/internal/router"
	"github.com/jask/contacts/internal/watch"
)

type focusArea int

const (
	focusList focusArea = iota
	focusSearch
	focusForm
)

// Watcher delivers watch.ChangedMsg when the backing store changes on disk.
type Watcher interface {
	Wait() tea.Cmd
}

type Options struct {
	// Initial is the first history entry. The zero value means "/".
	Initial       router.Location
	Logger        *zap.Logger
	MarkdownStyle string
	Watcher       Watcher
	// OnQuit receives the committed location when the user quits.
	OnQuit func(router.Location)
}

// App is the contacts UI: a sidebar with search and list, and a detail outlet
// rendering whatever route is committed.
type App struct {
	ctx    context.Context
	routes []router.Route
	router *router.Router
	log    *zap.Logger

	keys    keyMap
	help    help.Model
	search  textinput.Model
	spinner spinner.Model
	md      markdown
	sync    searchSync

	focus    focusArea
	cursor   int
	form     *editForm
	spinning bool

	width, height int
	watcher       Watcher
	onQuit        func(router.Location)

	// wroteAt is when the last local action finished; file changes shortly
	// after it are that action's own write.
	wroteAt time.Time
	now     func() time.Time
}

// echoWindow covers the watcher debounce plus the action's own revalidation.
const echoWindow = time.Second

func New(ctx context.Context, dir Directory, opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	initial := opts.Initial
	if initial.Path == "" {
		initial = router.Location{Path: "/"}
	}
	style := opts.MarkdownStyle
	if style == "" {
		style = "dark"
	}

	search := textinput.New()
	search.Prompt = "⌕ "
	search.Placeholder = "Search"
	search.Cursor.SetMode(cursor.CursorStatic)
	search.Width = sidebarWidth - 10

	routes := Routes(dir)
	return &App{
		ctx:     ctx,
		routes:  routes,
		router:  router.New(ctx, routes, initial, router.WithLogger(log.Named("router"))),
		log:     log,
		keys:    defaultKeys(),
		help:    help.New(),
		search:  search,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		md:      markdown{style: style},
		watcher: opts.Watcher,
		onQuit:  opts.OnQuit,
		width:   100,
		height:  30,
		now:     time.Now,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.router.Init(), a.waitForChange())
}

func (a *App) waitForChange() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Wait()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		if a.form != nil {
			a.form.resize(a.detailWidth())
		}
		return a, nil
	case router.LoadedMsg, router.ActionMsg:
		if _, ok := msg.(router.ActionMsg); ok {
			a.wroteAt = a.now()
		}
		ev, cmd := a.router.Update(msg)
		if ev.Settled {
			a.settled(ev)
		}
		return a, cmd
	case watch.ChangedMsg:
		if !a.wroteAt.IsZero() && a.now().Sub(a.wroteAt) < echoWindow {
			a.log.Debug("ignoring own write", zap.String("path", m.Path))
			return a, a.waitForChange()
		}
		a.log.Debug("store changed on disk", zap.String("path", m.Path))
		return a, tea.Batch(a.router.Revalidate(), a.waitForChange())
	case spinner.TickMsg:
		if !a.Searching() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case tea.KeyMsg:
		if key.Matches(m, a.keys.ForceQuit) {
			return a, a.quit()
		}
		switch a.focus {
		case focusSearch:
			return a, a.handleSearchKey(m)
		case focusForm:
			return a, a.handleFormKey(m)
		default:
			return a, a.handleListKey(m)
		}
	}
	return a, nil
}

// settled runs after every committed navigation.
func (a *App) settled(ev router.Event) {
	q, has := a.router.Location().Param("q")
	if v := a.sync.settle(q, has); a.search.Value() != v {
		a.search.SetValue(v)
	}

	if ev.Err != nil && !router.IsCanceled(ev.Err) {
		a.log.Warn("navigation failed", zap.String("location", ev.Location.String()), zap.Error(ev.Err))
	}

	leaf, _ := a.router.Leaf()
	if data, ok := router.Data[ContactData](a.router, RouteEdit); ok && leaf.Route != nil && leaf.Route.ID == RouteEdit && ev.Err == nil {
		if a.form == nil || a.form.id != data.Contact.ID {
			a.form = newEditForm(data.Contact, a.detailWidth())
		}
		a.focus = focusForm
	} else {
		a.form = nil
		if a.focus == focusForm {
			a.focus = focusList
		}
	}

	contacts := a.contacts()
	if id := a.activeID(); id != "" {
		for i, c := range contacts {
			if c.ID == id {
				a.cursor = i
				break
			}
		}
	}
	a.cursor = min(a.cursor, max(0, len(contacts)-1))
}

func (a *App) handleSearchKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Blur), key.Matches(m, a.keys.Toggle):
		a.focus = focusList
		a.search.Blur()
		return nil
	}
	before := a.search.Value()
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(m)
	if a.search.Value() == before {
		return cmd
	}
	cmds := []tea.Cmd{cmd, a.submitSearch()}
	if a.Searching() && !a.spinning {
		a.spinning = true
		cmds = append(cmds, a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (a *App) handleFormKey(m tea.KeyMsg) tea.Cmd {
	f := a.form
	if f == nil {
		a.focus = focusList
		return nil
	}
	switch {
	case key.Matches(m, a.keys.Save):
		return a.router.Submit(contactLocation(f.id, "/edit"), router.MethodPost, f.values(), router.NavigateOptions{})
	case key.Matches(m, a.keys.Cancel):
		if cmd := a.router.Back(); cmd != nil {
			return cmd
		}
		return a.router.Navigate(contactLocation(f.id, ""), router.NavigateOptions{Replace: true})
	case key.Matches(m, a.keys.NextField):
		f.next()
		return nil
	case key.Matches(m, a.keys.PrevField):
		f.prev()
		return nil
	}
	return f.update(m)
}

func (a *App) handleListKey(m tea.KeyMsg) tea.Cmd {
	contacts := a.contacts()
	current, hasCurrent := repository.Contact{}, false
	if a.cursor < len(contacts) {
		current, hasCurrent = contacts[a.cursor], true
	}

	switch {
	case key.Matches(m, a.keys.Quit):
		return a.quit()
	case key.Matches(m, a.keys.Search), key.Matches(m, a.keys.Toggle):
		a.focus = focusSearch
		return a.search.Focus()
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < len(contacts)-1 {
			a.cursor++
		}
	case key.Matches(m, a.keys.Open):
		if hasCurrent {
			return a.router.Navigate(contactLocation(current.ID, ""), router.NavigateOptions{})
		}
	case key.Matches(m, a.keys.New):
		return a.router.Submit(router.Location{Path: "/"}, router.MethodPost, nil, router.NavigateOptions{})
	case key.Matches(m, a.keys.Edit):
		if hasCurrent {
			return a.router.Navigate(contactLocation(current.ID, "/edit"), router.NavigateOptions{})
		}
	case key.Matches(m, a.keys.Favorite):
		if hasCurrent {
			form := url.Values{"favorite": {fmt.Sprint(!current.Favorite)}}
			return a.router.Submit(contactLocation(current.ID, ""), router.MethodPost, form, router.NavigateOptions{})
		}
	case key.Matches(m, a.keys.Delete):
		if hasCurrent {
			return a.router.Submit(contactLocation(current.ID, "/destroy"), router.MethodPost, nil, router.NavigateOptions{})
		}
	case key.Matches(m, a.keys.Back):
		return a.router.Back()
	case key.Matches(m, a.keys.Forward):
		return a.router.Forward()
	case key.Matches(m, a.keys.About):
		return a.router.Navigate(router.Location{Path: "/about"}, router.NavigateOptions{})
	case key.Matches(m, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return nil
}

func (a *App) quit() tea.Cmd {
	if a.onQuit != nil {
		a.onQuit(a.router.Location())
	}
	return tea.Quit
}

// contacts is the committed sidebar list, in store order.
func (a *App) contacts() []repository.Contact {
	data, _ := router.Data[SidebarData](a.router, RouteSidebar)
	return data.Contacts
}

// activeID is the contact of the committed location.
func (a *App) activeID() string {
	leaf, ok := a.router.Leaf()
	if !ok {
		return ""
	}
	return leaf.Params["contactId"]
}

// pendingID is the contact the pending navigation is heading to.
func (a *App) pendingID() string {
	nav := a.router.Navigation()
	if !nav.Pending() {
		return ""
	}
	matches, ok := router.MatchRoutes(a.routes, nav.Location.Path)
	if !ok {
		return ""
	}
	return matches[len(matches)-1].Params["contactId"]
}

func (a *App) detailWidth() int {
	return max(20, a.width-sidebarWidth-6)
}

func (a *App) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, a.viewSidebar(), a.viewDetail())
	return lipgloss.JoinVertical(lipgloss.Left, body, a.viewStatus(), a.viewHelp())
}

func (a *App) viewSidebar() string {
	inner := sidebarWidth - 2
	style := searchStyle
	if a.focus == focusSearch {
		style = searchFocusedStyle
	}
	field := a.search.View()
	if a.Searching() {
		field += " " + a.spinner.View()
	}

	list := renderContactList(a.contacts(), rowState{
		activeID:  a.activeID(),
		pendingID: a.pendingID(),
		cursor:    a.cursor,
		focused:   a.focus == focusList,
	}, inner)

	return sidebarStyle.Width(sidebarWidth).Height(max(1, a.height-3)).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Contacts"),
		style.Width(inner-2).Render(field),
		"",
		list,
	))
}

func (a *App) viewDetail() string {
	width := a.detailWidth()
	var body string
	leaf, ok := a.router.Leaf()
	switch {
	case a.router.Err() != nil:
		body = renderError(a.router.Err())
	case !ok:
		body = mutedStyle.Render("Loading…")
	default:
		switch leaf.Route.ID {
		case RouteAbout:
			body = renderAbout()
		case RouteContact:
			data, _ := router.Data[ContactData](a.router, RouteContact)
			body = a.renderContact(data.Contact, width)
		case RouteEdit:
			if a.form != nil {
				body = a.form.view()
			}
		default:
			body = renderIndex()
		}
	}
	style := detailStyle
	if a.DetailLoading() {
		style = detailLoadingStyle
	}
	return style.Width(width).Render(body)
}

func (a *App) viewStatus() string {
	parts := []string{a.router.Location().String()}
	h := a.router.History()
	parts = append(parts, fmt.Sprintf("%d/%d", h.Index()+1, h.Len()))
	if nav := a.router.Navigation(); nav.Pending() {
		parts = append(parts, nav.State.String()+" "+nav.Location.String())
	} else if a.router.Revalidating() {
		parts = append(parts, "refreshing")
	}
	line := strings.Join(parts, " · ")
	if err := a.router.Err(); err != nil {
		return statusErrStyle.Render(line)
	}
	return statusBarStyle.Render(line)
}

func (a *App) viewHelp() string {
	switch a.focus {
	case focusSearch:
		return a.help.View(searchKeys{a.keys})
	case focusForm:
		return a.help.View(formKeys{a.keys})
	default:
		return a.help.View(listKeys{a.keys})
	}
}
