package models

import "time"

// User holds the notification targets for a profile owner. Account
// management itself lives outside this service.
type User struct {
	ID             string    `db:"id"`
	Email          *string   `db:"email"`
	TelegramChatID *int64    `db:"telegram_chat_id"`
	CreatedAt      time.Time `db:"created_at"`
}
