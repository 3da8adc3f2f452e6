package repository

// UnknownChannelTitle is returned by GetChannelTitle for channels that are
// not stored.
const UnknownChannelTitle = "Unknown channel"

type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// ParseRole maps callback payloads to a role. Anything that is not "owner"
// is treated as admin.
func ParseRole(s string) Role {
	if Role(s) == RoleOwner {
		return RoleOwner
	}
	return RoleAdmin
}

type Channel struct {
	ChannelID string
	Title     string
}

type User struct {
	UserID      int64
	DisplayName string
}

type Permission struct {
	UserID    int64
	ChannelID string
	IsOwner   bool
}

// ChannelAdmin is a sync candidate: someone allowed to publish to the channel.
type ChannelAdmin struct {
	UserID      int64
	DisplayName string
	IsOwner     bool
}

// ChannelRef is a menu entry for a channel the user may publish to.
type ChannelRef struct {
	Title     string
	ChannelID string
}
