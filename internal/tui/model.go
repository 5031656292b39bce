// Package tui is the terminal client: a gallery of shows with a title
// filter, live autocomplete, a status filter and an add/edit form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iliyamo/tv-show-library/internal/apiclient"
	"github.com/iliyamo/tv-show-library/internal/catalog"
	"github.com/iliyamo/tv-show-library/internal/model"
)

// ShowService is the subset of the API the client needs.
type ShowService interface {
	List(ctx context.Context, f apiclient.Filter) ([]model.Show, error)
	Create(ctx context.Context, in apiclient.ShowInput) (int64, error)
	Update(ctx context.Context, id int64, in apiclient.ShowInput) error
	Delete(ctx context.Context, id int64) error
}

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirmDelete
)

// Screen rows used for mouse hit testing.  The panel is drawn directly
// under the search line, one suggestion per row.
const (
	rowSearch   = 1
	rowPanelTop = 2
)

// requestTimeout bounds every API call.
const requestTimeout = 10 * time.Second

// statusCycle is the order the status filter steps through.
var statusCycle = []string{"", model.StatusInProgress, model.StatusEnded}

// Options configures a Model.
type Options struct {
	Debounce    time.Duration
	Suggestions int
	Logger      *slog.Logger
}

// Model represents the UI state
type Model struct {
	api    ShowService
	log    *slog.Logger
	styles *Styles

	store    *catalog.Store
	ac       *catalog.Controller
	debounce *catalog.Debouncer

	search textinput.Model
	status string
	shows  []model.Show
	cursor int

	mode    mode
	form    *form
	pending *model.Show // show awaiting delete confirmation

	loading bool
	err     string
	notice  string

	width  int
	height int
}

// New creates the client model.
func New(api ShowService, opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	store := catalog.NewStore()

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "title…"
	search.CharLimit = 200
	search.Focus()

	return &Model{
		api:      api,
		log:      log,
		styles:   NewStyles(),
		store:    store,
		ac:       catalog.NewController(store, opts.Suggestions),
		debounce: catalog.NewDebouncer(opts.Debounce),
		search:   search,
		height:   24,
		width:    80,
	}
}

// Init loads the unfiltered list, which also seeds the suggestion store.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.reload())
}

func (m *Model) filter() apiclient.Filter {
	return apiclient.Filter{Title: m.search.Value(), Status: m.status}
}

// reload starts an authoritative fetch for the current filters.  Results
// are applied in arrival order.
func (m *Model) reload() tea.Cmd {
	m.loading = true
	f := m.filter()
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		shows, err := api.List(ctx, f)
		return showsLoadedMsg{filter: f, shows: shows, err: err}
	}
}

// scheduleReload arms a debounce timer; only the newest one reloads.
func (m *Model) scheduleReload() tea.Cmd {
	tag := m.debounce.Next()
	return tea.Tick(m.debounce.Delay, func(time.Time) tea.Msg { return reloadTickMsg{tag: tag} })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case showsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.log.Error("load shows failed", "title", msg.filter.Title, "status", msg.filter.Status, "error", msg.err)
			m.err = errorText(msg.err)
			return m, nil
		}
		m.shows = msg.shows
		m.store.RefreshIfUnfiltered(msg.filter.Title, msg.filter.Status, msg.shows)
		m.cursor = clamp(m.cursor, 0, len(m.shows)-1)
		return m, nil

	case reloadTickMsg:
		if !m.debounce.Fire(msg.tag) {
			return m, nil
		}
		return m, m.reload()

	case savedMsg:
		if msg.err != nil {
			m.log.Warn("save show failed", "error", msg.err)
			if m.form != nil {
				m.form.err = errorText(msg.err)
			}
			return m, nil
		}
		m.mode, m.form = modeBrowse, nil
		m.err, m.notice = "", msg.message
		return m, m.reload()

	case deletedMsg:
		m.mode, m.pending = modeBrowse, nil
		if msg.err != nil {
			m.log.Warn("delete show failed", "title", msg.title, "error", msg.err)
			m.err = errorText(msg.err)
			return m, m.reload()
		}
		m.err, m.notice = "", fmt.Sprintf("Deleted %q", msg.title)
		return m, m.reload()

	case tea.MouseMsg:
		if m.mode == modeBrowse {
			return m, m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m, m.handleFormKey(msg)
		case modeConfirmDelete:
			return m, m.handleConfirmKey(msg)
		}
		return m, m.handleBrowseKey(msg)
	}

	// Cursor blink and other internal messages go to the focused input.
	var cmd tea.Cmd
	if m.mode == modeForm && m.form != nil {
		cmd = m.form.update(msg)
	} else {
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	panel := m.ac.Visible()
	switch msg.String() {
	case "down":
		if panel {
			m.ac.OnArrowDown()
		} else {
			m.cursor = clamp(m.cursor+1, 0, len(m.shows)-1)
		}
		return nil
	case "up":
		if panel {
			m.ac.OnArrowUp()
		} else {
			m.cursor = clamp(m.cursor-1, 0, len(m.shows)-1)
		}
		return nil
	case "enter":
		if title, ok := m.ac.OnEnter(); ok {
			return m.commitSuggestion(title)
		}
		return nil
	case "esc":
		if panel {
			m.ac.OnEscape()
		} else {
			m.err, m.notice = "", ""
		}
		return nil
	case "tab":
		m.status = nextStatus(m.status)
		m.ac.OnClickOutside()
		return m.reload()
	case "ctrl+n":
		return m.openForm(nil)
	case "ctrl+e":
		if s := m.selected(); s != nil {
			return m.openForm(s)
		}
		return nil
	case "ctrl+d":
		if s := m.selected(); s != nil {
			m.pending = s
			m.mode = modeConfirmDelete
		}
		return nil
	case "ctrl+r":
		return m.reload()
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.ac.OnQueryChanged(after)
		return tea.Batch(cmd, m.scheduleReload())
	}
	return cmd
}

// commitSuggestion writes title into the search field and reloads at
// once; a pending debounce timer is cancelled by taking a fresh tag.
func (m *Model) commitSuggestion(title string) tea.Cmd {
	m.search.SetValue(title)
	m.search.CursorEnd()
	m.debounce.Next()
	return m.reload()
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if msg.Y == rowSearch {
		return nil
	}
	if m.ac.Visible() {
		p := m.ac.Panel()
		rows := len(p.Entries)
		if p.Placeholder != "" {
			rows = 1
		}
		if row := msg.Y - rowPanelTop; row >= 0 && row < rows {
			if p.Placeholder != "" {
				return nil
			}
			if title, ok := m.ac.OnSuggestionClicked(p.Entries[row].Title); ok {
				return m.commitSuggestion(title)
			}
			return nil
		}
	}
	m.ac.OnClickOutside()
	return nil
}

func (m *Model) openForm(s *model.Show) tea.Cmd {
	m.ac.OnClickOutside()
	m.search.Blur()
	m.form = newForm(s)
	m.mode = modeForm
	return textinput.Blink
}

func (m *Model) closeForm() tea.Cmd {
	m.form, m.mode = nil, modeBrowse
	return m.search.Focus()
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return m.closeForm()
	case "enter":
		if e := m.form.validate(); e != "" {
			m.form.err = e
			return nil
		}
		m.form.err = ""
		return m.save(m.form.id, m.form.input())
	}
	return m.form.update(msg)
}

func (m *Model) save(id int64, in apiclient.ShowInput) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if id == 0 {
			if _, err := api.Create(ctx, in); err != nil {
				return savedMsg{err: err}
			}
			return savedMsg{message: fmt.Sprintf("Added %q", in.Title)}
		}
		if err := api.Update(ctx, id, in); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{message: fmt.Sprintf("Updated %q", in.Title)}
	}
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		s := *m.pending
		api := m.api
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			return deletedMsg{title: s.Title, err: api.Delete(ctx, s.ID)}
		}
	case "n", "N", "esc":
		m.mode, m.pending = modeBrowse, nil
	}
	return nil
}

func (m *Model) selected() *model.Show {
	if m.cursor < 0 || m.cursor >= len(m.shows) {
		return nil
	}
	s := m.shows[m.cursor]
	return &s
}

func nextStatus(cur string) string {
	for i, s := range statusCycle {
		if s == cur {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return ""
}

// errorText surfaces API validation messages verbatim.
func errorText(err error) string {
	var ae *apiclient.APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
