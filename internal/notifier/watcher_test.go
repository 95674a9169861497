package notifier

import (
	"context"
	"testing"
	"time"

	"rentradar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWatcherStore struct {
	pending []models.Match
}

func (f *fakeWatcherStore) GetUndispatchedMatches(ctx context.Context, limit int) ([]models.Match, error) {
	return f.pending, nil
}

// batchDispatchStore serves several matches and captures the context
// deadline of every lookup.
type batchDispatchStore struct {
	matches   map[string]*models.Match
	property  *models.Property
	user      *models.User
	deadlines []time.Time
	recorded  []models.Notification
}

func (b *batchDispatchStore) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	if deadline, ok := ctx.Deadline(); ok {
		b.deadlines = append(b.deadlines, deadline)
	}
	return b.matches[matchID], nil
}

func (b *batchDispatchStore) GetProperty(ctx context.Context, propertyID string) (*models.Property, error) {
	return b.property, nil
}

func (b *batchDispatchStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return b.user, nil
}

func (b *batchDispatchStore) RecordNotification(ctx context.Context, n *models.Notification) error {
	b.recorded = append(b.recorded, *n)
	return nil
}

func TestWatcher_EachMatchGetsItsOwnBudget(t *testing.T) {
	pending := []models.Match{
		{ID: "match-1", PropertyID: "prop-1", UserID: "user-1"},
		{ID: "match-2", PropertyID: "prop-1", UserID: "user-1"},
		{ID: "match-3", PropertyID: "prop-1", UserID: "user-1"},
	}

	store := &batchDispatchStore{
		matches: map[string]*models.Match{},
		property: &models.Property{
			ID:    "prop-1",
			City:  "Amsterdam",
			Price: 1200,
			Title: "Bright apartment",
		},
		user: &models.User{ID: "user-1", TelegramChatID: chatID(42)},
	}
	for i := range pending {
		store.matches[pending[i].ID] = &pending[i]
	}

	channel := &fakeChannel{name: "telegram", deliverable: true}
	dispatcher := NewDispatcher(store, []Channel{channel}, nil, nil, zap.NewNop())
	watcher := NewWatcher(&fakeWatcherStore{pending: pending}, dispatcher, time.Minute, 10, zap.NewNop())

	watcher.dispatchPending(context.Background())

	assert.Len(t, channel.sent, 3)
	require.Len(t, store.recorded, 3)
	for _, n := range store.recorded {
		assert.Equal(t, models.NotificationStatusSent, n.Status)
	}

	// every delivery runs under its own deadline: with one shared batch
	// context the captured deadlines would all be equal, and the pacing
	// between matches could run the tail of a large batch out of time
	require.Len(t, store.deadlines, 3)
	assert.True(t, store.deadlines[1].After(store.deadlines[0]))
	assert.True(t, store.deadlines[2].After(store.deadlines[1]))
}
