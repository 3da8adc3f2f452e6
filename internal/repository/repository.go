package repository

import "context"

type SyncChannelAdminsInput struct {
	ChannelID string
	Title     string
	Admins    []ChannelAdmin
}

// PermissionRepository stores who may publish where. Errors are storage
// failures only; authorization decisions belong to the caller.
type PermissionRepository interface {
	SyncChannelAdmins(ctx context.Context, input SyncChannelAdminsInput) error
	GetUserChannels(ctx context.Context, userID int64, role Role) ([]ChannelRef, error)
	IsUserOwner(ctx context.Context, userID int64, channelID string) (bool, error)
	RemoveUserPermission(ctx context.Context, userID int64, channelID string) error
}

type ChannelRepository interface {
	DeleteChannel(ctx context.Context, channelID string) error
	GetChannelTitle(ctx context.Context, channelID string) (string, error)
	GetChannelOwnerID(ctx context.Context, channelID string) (int64, bool, error)
}

type Repository interface {
	PermissionRepository
	ChannelRepository
}
