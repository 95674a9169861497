package notifier

import (
	"context"

	"rentradar/internal/models"
)

// Message is the rendered notification for one match.
type Message struct {
	Match    *models.Match
	Property *models.Property
	User     *models.User
	Text     string
	URL      string
}

// Channel delivers a rendered match notification to one target kind.
// Channel-selection policy lives in the Dispatcher, not here.
type Channel interface {
	Name() string
	// CanDeliver reports whether the user has a target for this channel.
	CanDeliver(user *models.User) bool
	Send(ctx context.Context, msg *Message) error
}
