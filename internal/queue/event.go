// Package queue defines show change events and the consumer that records
// them.
package queue

import (
	"time"

	"github.com/iliyamo/tv-show-library/internal/model"
)

// ShowsQueue is the durable queue carrying ShowEvent messages.
const ShowsQueue = "shows.changed"

// Event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ShowEvent is published after a show is created, updated or deleted.  It
// carries enough of the show for consumers to log or index it without
// reading the database.
type ShowEvent struct {
	Action     string `json:"action"`
	ShowID     int64  `json:"show_id"`
	Title      string `json:"title"`
	Genre      string `json:"genre,omitempty"`
	IsEnded    bool   `json:"is_ended"`
	OccurredAt string `json:"occurred_at"`
}

// NewShowEvent builds an event for s stamped with the current UTC time.
func NewShowEvent(action string, s model.Show) ShowEvent {
	return ShowEvent{
		Action:     action,
		ShowID:     s.ID,
		Title:      s.Title,
		Genre:      s.Genre,
		IsEnded:    s.IsEnded,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
