package domain

import "strconv"

// Channels carrying user lifecycle events.
const (
	ChannelUserCreated = "user.created"
	ChannelUserUpdated = "user.updated"
	ChannelUserDeleted = "user.deleted"
)

// Channels published by the activity service and observed by the subscriber.
const (
	ChannelActivityCreated = "activity.created"
	ChannelActivityUpdated = "activity.updated"
	ChannelActivityDeleted = "activity.deleted"
)

// MonitoredChannels is the fixed set the subscriber joins at startup.
var MonitoredChannels = []string{
	ChannelUserCreated,
	ChannelUserUpdated,
	ChannelUserDeleted,
	ChannelActivityCreated,
	ChannelActivityUpdated,
	ChannelActivityDeleted,
}

// UserEventPayload is published on user.created and user.updated.
type UserEventPayload struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserDeletedPayload is published on user.deleted.
type UserDeletedPayload struct {
	ID int64 `json:"id"`
}

// NewUserEventPayload builds the event body for u. The password hash is
// never part of it.
func NewUserEventPayload(u User) UserEventPayload {
	return UserEventPayload{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Cache keys shared by readers and writers of user data.
const CacheKeyAllUsers = "users:all"

// CacheKeyUser returns the cache key of a single user snapshot.
func CacheKeyUser(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}
