package model

import "time"

// BookingLock is a short-lived advisory lock on one department slot. Its ID is
// derived from the slot, so a second insert for the same slot fails on the
// primary key until the first is released or expires. Owner identifies the
// request holding the lock; only that request may release it.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
