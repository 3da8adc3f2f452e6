// Package repositorytest provides an in-memory Repository with the same
// cascade semantics as the PostgreSQL schema, for use in tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"

	"github.com/foxseedlab/chanpost/internal/repository"
)

type permissionKey struct {
	userID    int64
	channelID string
}

type Memory struct {
	mu          sync.Mutex
	channels    map[string]string
	users       map[int64]string
	permissions map[permissionKey]bool

	// Err, when set, is returned by every operation.
	Err       error
	SyncCalls int
	DeleteLog []string
	callOrder []string
}

func NewMemory() *Memory {
	return &Memory{
		channels:    make(map[string]string),
		users:       make(map[int64]string),
		permissions: make(map[permissionKey]bool),
	}
}

func (m *Memory) record(op string) {
	m.callOrder = append(m.callOrder, op)
}

// Calls returns the operation names in call order.
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.callOrder...)
}

func (m *Memory) SyncChannelAdmins(_ context.Context, input repository.SyncChannelAdminsInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SyncChannelAdmins")
	if m.Err != nil {
		return m.Err
	}
	m.SyncCalls++
	m.channels[input.ChannelID] = input.Title
	for key := range m.permissions {
		if key.channelID == input.ChannelID {
			delete(m.permissions, key)
		}
	}
	for _, admin := range input.Admins {
		m.users[admin.UserID] = admin.DisplayName
		m.permissions[permissionKey{userID: admin.UserID, channelID: input.ChannelID}] = admin.IsOwner
	}
	return nil
}

func (m *Memory) GetUserChannels(_ context.Context, userID int64, role repository.Role) ([]repository.ChannelRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetUserChannels")
	if m.Err != nil {
		return nil, m.Err
	}
	wantOwner := role == repository.RoleOwner
	var refs []repository.ChannelRef
	for key, isOwner := range m.permissions {
		if key.userID != userID || isOwner != wantOwner {
			continue
		}
		refs = append(refs, repository.ChannelRef{Title: m.channels[key.channelID], ChannelID: key.channelID})
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Title != refs[j].Title {
			return refs[i].Title < refs[j].Title
		}
		return refs[i].ChannelID < refs[j].ChannelID
	})
	return refs, nil
}

func (m *Memory) IsUserOwner(_ context.Context, userID int64, channelID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("IsUserOwner")
	if m.Err != nil {
		return false, m.Err
	}
	return m.permissions[permissionKey{userID: userID, channelID: channelID}], nil
}

func (m *Memory) RemoveUserPermission(_ context.Context, userID int64, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RemoveUserPermission")
	if m.Err != nil {
		return m.Err
	}
	key := permissionKey{userID: userID, channelID: channelID}
	delete(m.permissions, key)
	return nil
}

func (m *Memory) DeleteChannel(_ context.Context, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteChannel")
	if m.Err != nil {
		return m.Err
	}
	m.DeleteLog = append(m.DeleteLog, channelID)
	delete(m.channels, channelID)
	for key := range m.permissions {
		if key.channelID == channelID {
			delete(m.permissions, key)
		}
	}
	return nil
}

func (m *Memory) GetChannelTitle(_ context.Context, channelID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetChannelTitle")
	if m.Err != nil {
		return "", m.Err
	}
	title, ok := m.channels[channelID]
	if !ok {
		return repository.UnknownChannelTitle, nil
	}
	return title, nil
}

func (m *Memory) GetChannelOwnerID(_ context.Context, channelID string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetChannelOwnerID")
	if m.Err != nil {
		return 0, false, m.Err
	}
	for key, isOwner := range m.permissions {
		if key.channelID == channelID && isOwner {
			return key.userID, true, nil
		}
	}
	return 0, false, nil
}

// Permissions returns the rows of one channel sorted by user id.
func (m *Memory) Permissions(channelID string) []repository.Permission {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []repository.Permission
	for key, isOwner := range m.permissions {
		if key.channelID == channelID {
			rows = append(rows, repository.Permission{UserID: key.userID, ChannelID: key.channelID, IsOwner: isOwner})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows
}

// HasChannel reports whether the channel row exists.
func (m *Memory) HasChannel(channelID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.channels[channelID]
	return ok
}
