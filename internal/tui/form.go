package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iliyamo/tv-show-library/internal/apiclient"
	"github.com/iliyamo/tv-show-library/internal/model"
	"github.com/iliyamo/tv-show-library/internal/validation"
)

// Form field order.  fieldEnded is a toggle, the rest are text inputs.
const (
	fieldTitle = iota
	fieldCover
	fieldGenre
	fieldEnded
	fieldCount
)

// form is the add/edit dialog.  id is 0 when adding.
type form struct {
	id     int64
	inputs [3]textinput.Model
	ended  bool
	focus  int
	err    string
}

func newForm(s *model.Show) *form {
	f := &form{}
	for i, ph := range []string{"Breaking Bad", "https://example.com/cover.jpg", model.DefaultGenre} {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = ph
		in.CharLimit = 512
		f.inputs[i] = in
	}
	if s != nil {
		f.id = s.ID
		f.inputs[fieldTitle].SetValue(s.Title)
		f.inputs[fieldCover].SetValue(s.CoverImageURL)
		f.inputs[fieldGenre].SetValue(s.Genre)
		f.ended = s.IsEnded
	}
	f.inputs[fieldTitle].Focus()
	return f
}

func (f *form) editing() bool { return f.id != 0 }

func (f *form) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

// input returns the trimmed values, defaulting the genre.
func (f *form) input() apiclient.ShowInput {
	in := apiclient.ShowInput{
		Title:         strings.TrimSpace(f.inputs[fieldTitle].Value()),
		CoverImageURL: strings.TrimSpace(f.inputs[fieldCover].Value()),
		Genre:         strings.TrimSpace(f.inputs[fieldGenre].Value()),
		IsEnded:       f.ended,
	}
	if in.Genre == "" {
		in.Genre = model.DefaultGenre
	}
	return in
}

// validate mirrors the server's first two checks so obvious mistakes do
// not cost a round trip.  The server stays the authority.
func (f *form) validate() string {
	in := f.input()
	if in.Title == "" || in.CoverImageURL == "" {
		return validation.MsgRequired
	}
	if !validation.IsHTTPSURL(in.CoverImageURL) {
		return validation.MsgHTTPS
	}
	return ""
}

// update handles keys other than submit and cancel.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			return f.setFocus(f.focus + 1)
		case "shift+tab", "up":
			return f.setFocus(f.focus - 1)
		case " ":
			if f.focus == fieldEnded {
				f.ended = !f.ended
				return nil
			}
		}
	}
	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return cmd
	}
	return nil
}
