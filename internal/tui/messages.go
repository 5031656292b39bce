package tui

import (
	"github.com/iliyamo/tv-show-library/internal/apiclient"
	"github.com/iliyamo/tv-show-library/internal/model"
)

// showsLoadedMsg carries the result of an authoritative reload.
type showsLoadedMsg struct {
	filter apiclient.Filter
	shows  []model.Show
	err    error
}

// reloadTickMsg fires when a debounce timer expires.
type reloadTickMsg struct {
	tag uint64
}

// savedMsg reports the outcome of a create or update.
type savedMsg struct {
	message string
	err     error
}

// deletedMsg reports the outcome of a delete.
type deletedMsg struct {
	title string
	err   error
}
