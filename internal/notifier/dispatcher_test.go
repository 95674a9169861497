package notifier

import (
	"context"
	"errors"
	"testing"

	"rentradar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDispatchStore struct {
	match    *models.Match
	property *models.Property
	user     *models.User
	recorded []models.Notification
}

func (f *fakeDispatchStore) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	if f.match == nil || f.match.ID != matchID {
		return nil, nil
	}
	return f.match, nil
}

func (f *fakeDispatchStore) GetProperty(ctx context.Context, propertyID string) (*models.Property, error) {
	return f.property, nil
}

func (f *fakeDispatchStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return f.user, nil
}

func (f *fakeDispatchStore) RecordNotification(ctx context.Context, n *models.Notification) error {
	f.recorded = append(f.recorded, *n)
	return nil
}

type fakeChannel struct {
	name        string
	deliverable bool
	sendErr     error
	sent        []*Message
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) CanDeliver(user *models.User) bool { return f.deliverable }

func (f *fakeChannel) Send(ctx context.Context, msg *Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func chatID(v int64) *int64 { return &v }

func dispatchFixture() *fakeDispatchStore {
	return &fakeDispatchStore{
		match: &models.Match{
			ID:         "match-1",
			PropertyID: "prop-1",
			UserID:     "user-1",
			MatchScore: 110,
		},
		property: &models.Property{
			ID:    "prop-1",
			City:  "Amsterdam",
			Price: 1200,
			Title: "Bright apartment",
			URL:   "https://example.com/prop-1",
		},
		user: &models.User{
			ID:             "user-1",
			TelegramChatID: chatID(42),
		},
	}
}

func TestDispatcher_Notify(t *testing.T) {
	store := dispatchFixture()
	channel := &fakeChannel{name: "telegram", deliverable: true}

	d := NewDispatcher(store, []Channel{channel}, nil, nil, zap.NewNop())
	err := d.Notify(context.Background(), "match-1")

	require.NoError(t, err)
	require.Len(t, channel.sent, 1)
	assert.Equal(t, "match-1", channel.sent[0].Match.ID)
	assert.Contains(t, channel.sent[0].Text, "Bright apartment")

	require.Len(t, store.recorded, 1)
	assert.Equal(t, "telegram", store.recorded[0].Channel)
	assert.Equal(t, models.NotificationStatusSent, store.recorded[0].Status)
	assert.Nil(t, store.recorded[0].Error)
}

func TestDispatcher_DeletedMatchIsNoOp(t *testing.T) {
	store := dispatchFixture()
	store.match = nil
	channel := &fakeChannel{name: "telegram", deliverable: true}

	d := NewDispatcher(store, []Channel{channel}, nil, nil, zap.NewNop())
	err := d.Notify(context.Background(), "match-1")

	require.NoError(t, err)
	assert.Empty(t, channel.sent)
	assert.Empty(t, store.recorded)
}

func TestDispatcher_ChannelFailureIsRecorded(t *testing.T) {
	store := dispatchFixture()
	failing := &fakeChannel{name: "telegram", deliverable: true, sendErr: errors.New("blocked by user")}
	working := &fakeChannel{name: "email", deliverable: true}

	d := NewDispatcher(store, []Channel{failing, working}, nil, nil, zap.NewNop())
	err := d.Notify(context.Background(), "match-1")

	require.NoError(t, err)

	// the failure does not stop the second channel
	require.Len(t, working.sent, 1)

	require.Len(t, store.recorded, 2)
	assert.Equal(t, models.NotificationStatusFailed, store.recorded[0].Status)
	require.NotNil(t, store.recorded[0].Error)
	assert.Contains(t, *store.recorded[0].Error, "blocked by user")
	assert.Equal(t, models.NotificationStatusSent, store.recorded[1].Status)
}

func TestDispatcher_NoDeliverableChannel(t *testing.T) {
	store := dispatchFixture()
	store.user.TelegramChatID = nil
	channel := &fakeChannel{name: "telegram", deliverable: false}

	d := NewDispatcher(store, []Channel{channel}, nil, nil, zap.NewNop())
	err := d.Notify(context.Background(), "match-1")

	require.NoError(t, err)
	assert.Empty(t, channel.sent)

	// a dead-end outcome is still recorded so the match is not re-picked
	require.Len(t, store.recorded, 1)
	assert.Equal(t, "none", store.recorded[0].Channel)
	assert.Equal(t, models.NotificationStatusFailed, store.recorded[0].Status)
}

type fakeRateLimiter struct {
	count      int64
	increments int
	err        error
}

func (f *fakeRateLimiter) GetNotifyRateLimit(ctx context.Context, userID string) (int64, error) {
	return f.count, f.err
}

func (f *fakeRateLimiter) IncrementNotifyRateLimit(ctx context.Context, userID string) (int64, error) {
	f.increments++
	f.count++
	return f.count, nil
}

func TestDispatcher_UserRateLimit(t *testing.T) {
	t.Run("under the cap delivers and counts", func(t *testing.T) {
		store := dispatchFixture()
		channel := &fakeChannel{name: "telegram", deliverable: true}
		limiter := &fakeRateLimiter{count: maxNotificationsPerUserWindow - 1}

		d := NewDispatcher(store, []Channel{channel}, nil, limiter, zap.NewNop())
		require.NoError(t, d.Notify(context.Background(), "match-1"))

		assert.Len(t, channel.sent, 1)
		assert.Len(t, store.recorded, 1)
		assert.Equal(t, 1, limiter.increments)
	})

	t.Run("over the cap defers without recording", func(t *testing.T) {
		store := dispatchFixture()
		channel := &fakeChannel{name: "telegram", deliverable: true}
		limiter := &fakeRateLimiter{count: maxNotificationsPerUserWindow}

		d := NewDispatcher(store, []Channel{channel}, nil, limiter, zap.NewNop())
		require.NoError(t, d.Notify(context.Background(), "match-1"))

		// no delivery, no outcome row and no increment: the watcher
		// re-picks the match once the window expires
		assert.Empty(t, channel.sent)
		assert.Empty(t, store.recorded)
		assert.Equal(t, 0, limiter.increments)
	})

	t.Run("limiter errors fail open", func(t *testing.T) {
		store := dispatchFixture()
		channel := &fakeChannel{name: "telegram", deliverable: true}
		limiter := &fakeRateLimiter{err: errors.New("redis down")}

		d := NewDispatcher(store, []Channel{channel}, nil, limiter, zap.NewNop())
		require.NoError(t, d.Notify(context.Background(), "match-1"))

		assert.Len(t, channel.sent, 1)
	})
}

type fakeBlurber struct {
	blurb string
	err   error
}

func (f *fakeBlurber) Generate(ctx context.Context, property *models.Property) (string, error) {
	return f.blurb, f.err
}

func TestDispatcher_BlurbFallback(t *testing.T) {
	store := dispatchFixture()
	channel := &fakeChannel{name: "telegram", deliverable: true}

	t.Run("blurb included when generation works", func(t *testing.T) {
		d := NewDispatcher(store, []Channel{channel}, &fakeBlurber{blurb: "Great fit"}, nil, zap.NewNop())
		require.NoError(t, d.Notify(context.Background(), "match-1"))
		assert.Contains(t, channel.sent[len(channel.sent)-1].Text, "Great fit")
	})

	t.Run("plain message when generation fails", func(t *testing.T) {
		d := NewDispatcher(store, []Channel{channel}, &fakeBlurber{err: errors.New("quota")}, nil, zap.NewNop())
		require.NoError(t, d.Notify(context.Background(), "match-1"))
		latest := channel.sent[len(channel.sent)-1]
		assert.Contains(t, latest.Text, "Bright apartment")
		assert.NotContains(t, latest.Text, "Great fit")
	})
}
