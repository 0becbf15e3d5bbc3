package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type commitKind int

const (
	commitPush commitKind = iota
	commitReplace
	commitPop
	commitRevalidate
)

func (k commitKind) String() string {
	switch k {
	case commitReplace:
		return "replace"
	case commitPop:
		return "pop"
	case commitRevalidate:
		return "revalidate"
	default:
		return "push"
	}
}

// LoadedMsg carries the loader results of one navigation or revalidation.
type LoadedMsg struct {
	seq      uint64
	kind     commitKind
	delta    int
	location Location
	matches  []Match
	data     map[string]any
	err      error
}

// ActionMsg carries the outcome of a submission's action.
type ActionMsg struct {
	seq      uint64
	location Location
	replace  bool
	result   any
	err      error
}

// Event reports what Update did with a router message.
type Event struct {
	// Settled is set when a navigation or revalidation was committed.
	Settled bool
	// Stale is set when the message belonged to a superseded navigation.
	Stale    bool
	Location Location
	Err      error
}

// NavigateOptions controls how a navigation lands in history.
type NavigateOptions struct {
	Replace bool
}

// Router owns history, the pending navigation and the committed loader data.
type Router struct {
	ctx     context.Context
	routes  []Route
	history *History
	log     *zap.Logger

	nav          Navigation
	revalidating bool
	seq          uint64
	cancel       context.CancelFunc

	matches      []Match
	data         map[string]any
	actionResult any
	err          error
}

type Option func(*Router)

func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.log = l
		}
	}
}

// New builds a router whose history starts at initial. Call Init to load it.
func New(ctx context.Context, routes []Route, initial Location, opts ...Option) *Router {
	r := &Router{
		ctx:     ctx,
		routes:  routes,
		history: NewHistory(initial),
		log:     zap.NewNop(),
		data:    map[string]any{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init loads the initial location.
func (r *Router) Init() tea.Cmd {
	loc := r.history.Current()
	seq, ctx := r.begin(Navigation{State: Loading, Location: loc, Method: MethodGet})
	return r.load(ctx, seq, commitReplace, 0, loc)
}

// Navigate starts a GET navigation to loc. Navigating to the committed location
// replaces the current entry instead of pushing a duplicate.
func (r *Router) Navigate(loc Location, opts NavigateOptions) tea.Cmd {
	kind := commitPush
	if opts.Replace || loc.Equal(r.history.Current()) {
		kind = commitReplace
	}
	seq, ctx := r.begin(Navigation{State: Loading, Location: loc, Method: MethodGet})
	r.log.Debug("navigate", zap.String("to", loc.String()), zap.Stringer("kind", kind), zap.Uint64("seq", seq))
	return r.load(ctx, seq, kind, 0, loc)
}

// Submit sends form to target. GET submissions become navigations whose query is
// the form; POST submissions run the action of the matched leaf route.
func (r *Router) Submit(target Location, method string, form url.Values, opts NavigateOptions) tea.Cmd {
	if method == "" || method == MethodGet {
		return r.Navigate(target.WithQuery(form), opts)
	}
	seq, ctx := r.begin(Navigation{State: Submitting, Location: target, Method: method, Form: form})
	r.log.Debug("submit", zap.String("to", target.String()), zap.String("method", method), zap.Uint64("seq", seq))

	matches, ok := MatchRoutes(r.routes, target.Path)
	return func() tea.Msg {
		msg := ActionMsg{seq: seq, location: target, replace: opts.Replace}
		if !ok {
			msg.err = NotFound("no route matches %s", target.Path)
			return msg
		}
		leaf := matches[len(matches)-1]
		if leaf.Route.Action == nil {
			msg.err = &Response{Status: http.StatusMethodNotAllowed, Message: fmt.Sprintf("%s does not accept %s", target.Path, method)}
			return msg
		}
		msg.result, msg.err = leaf.Route.Action(ctx, Request{Location: target, Params: leaf.Params, Method: method, Form: form})
		return msg
	}
}

// Back and Forward are pop navigations through history. They return nil at either end.
func (r *Router) Back() tea.Cmd    { return r.Go(-1) }
func (r *Router) Forward() tea.Cmd { return r.Go(1) }

func (r *Router) Go(delta int) tea.Cmd {
	loc, ok := r.history.Peek(delta)
	if !ok {
		return nil
	}
	seq, ctx := r.begin(Navigation{State: Loading, Location: loc, Method: MethodGet})
	r.log.Debug("pop", zap.String("to", loc.String()), zap.Int("delta", delta), zap.Uint64("seq", seq))
	return r.load(ctx, seq, commitPop, delta, loc)
}

// Revalidate re-runs the loaders of the committed location without touching
// history. It is a no-op while a navigation is pending, since that navigation
// will load fresh data anyway.
func (r *Router) Revalidate() tea.Cmd {
	if r.nav.Pending() {
		return nil
	}
	loc := r.history.Current()
	seq, ctx := r.next()
	r.revalidating = true
	r.log.Debug("revalidate", zap.String("at", loc.String()), zap.Uint64("seq", seq))
	return r.load(ctx, seq, commitRevalidate, 0, loc)
}

// Update commits or discards router messages. Non-router messages are ignored.
func (r *Router) Update(msg tea.Msg) (Event, tea.Cmd) {
	switch m := msg.(type) {
	case LoadedMsg:
		if m.seq != r.seq {
			r.log.Debug("discarding stale load", zap.String("location", m.location.String()), zap.Uint64("seq", m.seq))
			return Event{Stale: true, Location: m.location}, nil
		}
		return r.commit(m), nil
	case ActionMsg:
		if m.seq != r.seq {
			r.log.Debug("discarding stale action", zap.String("location", m.location.String()), zap.Uint64("seq", m.seq))
			return Event{Stale: true, Location: m.location}, nil
		}
		return r.afterAction(m)
	}
	return Event{}, nil
}

func (r *Router) afterAction(m ActionMsg) (Event, tea.Cmd) {
	if m.err != nil {
		r.log.Warn("action failed", zap.String("location", m.location.String()), zap.Error(m.err))
		matches, _ := MatchRoutes(r.routes, m.location.Path)
		return r.commit(LoadedMsg{
			seq:      m.seq,
			kind:     kindFor(m.replace),
			location: m.location,
			matches:  matches,
			err:      m.err,
		}), nil
	}
	r.actionResult = m.result
	if redirect, ok := m.result.(Redirect); ok {
		to, err := Parse(redirect.To)
		if err != nil {
			return r.commit(LoadedMsg{seq: m.seq, kind: commitReplace, location: r.history.Current(), matches: r.matches, err: err}), nil
		}
		kind := kindFor(redirect.Replace || m.replace)
		seq, ctx := r.begin(Navigation{State: Loading, Location: to, Method: MethodGet})
		r.log.Debug("redirect", zap.String("from", m.location.String()), zap.String("to", to.String()), zap.Uint64("seq", seq))
		return Event{}, r.load(ctx, seq, kind, 0, to)
	}
	loc := r.history.Current()
	seq, ctx := r.begin(Navigation{State: Loading, Location: loc, Method: MethodGet})
	return Event{}, r.load(ctx, seq, commitRevalidate, 0, loc)
}

func kindFor(replace bool) commitKind {
	if replace {
		return commitReplace
	}
	return commitPush
}

func (r *Router) commit(m LoadedMsg) Event {
	switch m.kind {
	case commitPush:
		r.history.Push(m.location)
	case commitReplace:
		r.history.Replace(m.location)
	case commitPop:
		r.history.Go(m.delta)
	}
	data := make(map[string]any, len(m.matches))
	for _, match := range m.matches {
		id := match.Route.ID
		if v, ok := m.data[id]; ok {
			data[id] = v
		} else if v, ok := r.data[id]; ok && m.err != nil {
			data[id] = v
		}
	}
	r.matches = m.matches
	r.data = data
	r.err = m.err
	r.nav = Navigation{}
	r.revalidating = false
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.log.Debug("committed",
		zap.String("location", m.location.String()),
		zap.Stringer("kind", m.kind),
		zap.Int("history", r.history.Len()),
		zap.Error(m.err))
	return Event{Settled: true, Location: r.history.Current(), Err: m.err}
}

// begin supersedes whatever is in flight and records nav as pending.
func (r *Router) begin(nav Navigation) (uint64, context.Context) {
	seq, ctx := r.next()
	r.nav = nav
	r.revalidating = false
	return seq, ctx
}

func (r *Router) next() (uint64, context.Context) {
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	ctx, cancel := context.WithCancel(r.ctx)
	r.cancel = cancel
	return r.seq, ctx
}

// load runs every matched loader concurrently. The first failure cancels the rest.
func (r *Router) load(ctx context.Context, seq uint64, kind commitKind, delta int, loc Location) tea.Cmd {
	matches, ok := MatchRoutes(r.routes, loc.Path)
	return func() tea.Msg {
		msg := LoadedMsg{seq: seq, kind: kind, delta: delta, location: loc, matches: matches}
		if !ok {
			msg.err = NotFound("no route matches %s", loc.Path)
			return msg
		}
		results := make([]any, len(matches))
		g, gctx := errgroup.WithContext(ctx)
		for i, match := range matches {
			if match.Route.Loader == nil {
				continue
			}
			req := Request{Location: loc, Params: match.Params, Method: MethodGet}
			g.Go(func() error {
				v, err := match.Route.Loader(gctx, req)
				if err != nil {
					return fmt.Errorf("%s loader: %w", match.Route.ID, err)
				}
				results[i] = v
				return nil
			})
		}
		msg.err = g.Wait()
		msg.data = make(map[string]any, len(matches))
		for i, match := range matches {
			if results[i] != nil {
				msg.data[match.Route.ID] = results[i]
			}
		}
		return msg
	}
}

// Location is the committed location.
func (r *Router) Location() Location { return r.history.Current() }

// Navigation is the pending navigation; its State is Idle when nothing is in flight.
func (r *Router) Navigation() Navigation { return r.nav }

func (r *Router) Revalidating() bool { return r.revalidating }

func (r *Router) History() *History { return r.history }

// Matches is the committed route chain.
func (r *Router) Matches() []Match { return r.matches }

// Leaf is the innermost committed match.
func (r *Router) Leaf() (Match, bool) {
	if len(r.matches) == 0 {
		return Match{}, false
	}
	return r.matches[len(r.matches)-1], true
}

// LoaderData returns the committed data of route id.
func (r *Router) LoaderData(id string) (any, bool) {
	v, ok := r.data[id]
	return v, ok
}

// ActionResult is the value returned by the last successful non-redirect action.
func (r *Router) ActionResult() any { return r.actionResult }

// Err is the error of the committed navigation, for the error boundary.
func (r *Router) Err() error { return r.err }

// Data returns route id's committed loader data as T.
func Data[T any](r *Router, id string) (T, bool) {
	var zero T
	v, ok := r.LoaderData(id)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// IsCanceled reports whether err came from a superseded navigation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
