package catalog

import "github.com/iliyamo/tv-show-library/internal/model"

// NoResults is shown in place of suggestions when nothing matches.
const NoResults = "No matching shows"

// DefaultRows is how many suggestions the panel shows at once.
const DefaultRows = 8

// Entry is one rendered suggestion.  Before, Match and After concatenate
// to Title; Match is the part to emphasise.
type Entry struct {
	Index  int // position in the full match list
	ShowID int64
	Title  string
	Before string
	Match  string
	After  string
}

// Panel is everything a view needs to draw the suggestion list.
type Panel struct {
	Visible bool
	// Placeholder is set instead of Entries when the query matched
	// nothing.  It is not selectable.
	Placeholder string
	Entries     []Entry // the visible window, starting at Offset
	Active      int     // index into the full match list, -1 for none
	Offset      int
	Total       int
}

// Controller is the autocomplete state machine.  Each On* method maps to
// one user interaction; Panel renders the resulting state.
type Controller struct {
	store   *Store
	rows    int
	query   string
	matches []model.Show
	active  int
	offset  int
	visible bool
}

// NewController reads suggestions from store and shows up to rows of them
// at a time (DefaultRows when rows is not positive).
func NewController(store *Store, rows int) *Controller {
	if rows <= 0 {
		rows = DefaultRows
	}
	return &Controller{store: store, rows: rows, active: -1}
}

// Query is the current text of the search field.
func (c *Controller) Query() string { return c.query }

// Active is the keyboard selection, -1 when nothing is selected.
func (c *Controller) Active() int { return c.active }

// Visible reports whether the panel is shown.
func (c *Controller) Visible() bool { return c.visible }

// OnQueryChanged recomputes suggestions for query.  An empty query hides
// the panel.
func (c *Controller) OnQueryChanged(query string) {
	c.query = query
	if query == "" {
		c.hide()
		return
	}
	c.matches = Match(query, c.store.All())
	c.active = -1
	c.offset = 0
	c.visible = true
}

// OnArrowDown moves the selection one row down, stopping at the last row.
func (c *Controller) OnArrowDown() {
	if !c.visible || len(c.matches) == 0 || c.active >= len(c.matches)-1 {
		return
	}
	c.active++
	if c.active >= c.offset+c.rows {
		c.offset = c.active - c.rows + 1
	}
}

// OnArrowUp moves the selection one row up, stopping at "no selection".
func (c *Controller) OnArrowUp() {
	if !c.visible || len(c.matches) == 0 || c.active < 0 {
		return
	}
	c.active--
	if c.active >= 0 && c.active < c.offset {
		c.offset = c.active
	}
}

// OnEnter commits the selected suggestion.  It returns the committed
// title and true so the caller can start a reload, or false and leaves
// the query untouched when nothing is selected.
func (c *Controller) OnEnter() (string, bool) {
	if !c.visible || c.active < 0 || c.active >= len(c.matches) {
		return "", false
	}
	return c.commit(c.matches[c.active].Title)
}

// OnSuggestionClicked commits title exactly like OnEnter.
func (c *Controller) OnSuggestionClicked(title string) (string, bool) {
	return c.commit(title)
}

// OnEscape hides the panel and drops the selection.  The query stays.
func (c *Controller) OnEscape() { c.hide() }

// OnClickOutside hides the panel after a pointer event outside the
// search field and the panel.
func (c *Controller) OnClickOutside() { c.hide() }

// Panel renders the current state.  Rendering has no side effects.
func (c *Controller) Panel() Panel {
	p := Panel{Visible: c.visible, Active: c.active, Offset: c.offset, Total: len(c.matches)}
	if !c.visible {
		return p
	}
	if len(c.matches) == 0 {
		p.Placeholder = NoResults
		return p
	}
	end := min(c.offset+c.rows, len(c.matches))
	p.Entries = make([]Entry, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		s := c.matches[i]
		before, match, after, _ := Highlight(s.Title, c.query)
		p.Entries = append(p.Entries, Entry{
			Index:  i,
			ShowID: s.ID,
			Title:  s.Title,
			Before: before,
			Match:  match,
			After:  after,
		})
	}
	return p
}

func (c *Controller) commit(title string) (string, bool) {
	c.query = title
	c.hide()
	return title, true
}

func (c *Controller) hide() {
	c.visible = false
	c.matches = nil
	c.active = -1
	c.offset = 0
}
