package models

import "time"

// Notification is a broadcast message pushed to every registered device.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PushToken is an Expo push token registered by a mobile client. Tokens are
// upserted idempotently by value.
type PushToken struct {
	ID        string    `db:"id" json:"id"`
	Token     string    `db:"token" json:"token"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
