package roster

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/foxseedlab/chanpost/internal/audit"
	"github.com/foxseedlab/chanpost/internal/repository"
	"github.com/foxseedlab/chanpost/internal/repository/repositorytest"
	"github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/foxseedlab/chanpost/internal/telegram/telegramtest"
)

const (
	ownerA  int64 = 100
	adminB  int64 = 200
	viewerC int64 = 300
	channel       = "-100555"
)

type mockSink struct {
	events []audit.Event
	err    error
}

func (m *mockSink) Record(_ context.Context, event audit.Event) error {
	m.events = append(m.events, event)
	return m.err
}

func newsAdmins() []telegram.ChatMember {
	return []telegram.ChatMember{
		{UserID: ownerA, DisplayName: "alice", Status: telegram.StatusCreator},
		{UserID: adminB, DisplayName: "bob", Status: telegram.StatusAdministrator, CanPostMessages: true},
		{UserID: viewerC, DisplayName: "carol", Status: telegram.StatusAdministrator},
	}
}

func newTestSynchronizer() (*Synchronizer, *repositorytest.Memory, *telegramtest.Fake, *mockSink) {
	repo := repositorytest.NewMemory()
	tg := telegramtest.New()
	tg.Admins[channel] = newsAdmins()
	tg.Titles[channel] = "News"
	sink := &mockSink{}
	return NewSynchronizer(repo, tg, sink, 0), repo, tg, sink
}

func promotion(actor int64) telegram.MembershipEvent {
	return telegram.MembershipEvent{
		ChannelID:    channel,
		ChannelTitle: "News",
		ActorID:      actor,
		OldStatus:    telegram.StatusLeft,
		NewStatus:    telegram.StatusAdministrator,
	}
}

func TestHandleBotPromoted_StoresPublishersWithSingleOwner(t *testing.T) {
	s, repo, _, sink := newTestSynchronizer()
	ctx := context.Background()

	if err := s.HandleBotPromoted(ctx, promotion(ownerA)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []repository.Permission{
		{UserID: ownerA, ChannelID: channel, IsOwner: true},
		{UserID: adminB, ChannelID: channel, IsOwner: false},
	}
	if got := repo.Permissions(channel); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected permissions: %+v", got)
	}
	ownerID, found, err := repo.GetChannelOwnerID(ctx, channel)
	if err != nil || !found || ownerID != ownerA {
		t.Fatalf("expected owner %d, got %d found=%v err=%v", ownerA, ownerID, found, err)
	}
	isOwner, err := repo.IsUserOwner(ctx, adminB, channel)
	if err != nil || isOwner {
		t.Fatalf("expected admin B not to be owner, got %v err=%v", isOwner, err)
	}
	if len(sink.events) != 1 || sink.events[0].Kind != audit.KindChannelConnected || sink.events[0].AdminCount != 2 {
		t.Fatalf("unexpected audit events: %+v", sink.events)
	}
}

func TestHandleBotPromoted_IsIdempotent(t *testing.T) {
	s, repo, _, _ := newTestSynchronizer()
	ctx := context.Background()

	if err := s.HandleBotPromoted(ctx, promotion(ownerA)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := repo.Permissions(channel)
	if err := s.HandleBotPromoted(ctx, promotion(ownerA)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second := repo.Permissions(channel); !reflect.DeepEqual(first, second) {
		t.Fatalf("resync changed rows: %+v != %+v", first, second)
	}
}

func TestHandleBotPromoted_RolesPartitionChannels(t *testing.T) {
	s, repo, tg, _ := newTestSynchronizer()
	ctx := context.Background()
	tg.Admins["-100777"] = []telegram.ChatMember{
		{UserID: adminB, DisplayName: "bob", Status: telegram.StatusCreator},
		{UserID: ownerA, DisplayName: "alice", Status: telegram.StatusAdministrator, CanPostMessages: true},
	}
	if err := s.HandleBotPromoted(ctx, promotion(ownerA)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := promotion(adminB)
	other.ChannelID, other.ChannelTitle = "-100777", "Sports"
	if err := s.HandleBotPromoted(ctx, other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, user := range []int64{ownerA, adminB} {
		owned, err := repo.GetUserChannels(ctx, user, repository.RoleOwner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		administered, err := repo.GetUserChannels(ctx, user, repository.RoleAdmin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(owned) != 1 || len(administered) != 1 || owned[0].ChannelID == administered[0].ChannelID {
			t.Fatalf("user %d: owner %+v and admin %+v must be disjoint", user, owned, administered)
		}
	}
}

func TestHandleBotPromoted_FetchFailureSkipsStoreAndNotices(t *testing.T) {
	s, repo, tg, sink := newTestSynchronizer()
	tg.AdminsErr = errors.New("chat not found")

	if err := s.HandleBotPromoted(context.Background(), promotion(adminB)); err == nil {
		t.Fatal("expected error")
	}
	if repo.SyncCalls != 0 {
		t.Fatalf("expected no store call, got %d", repo.SyncCalls)
	}
	if len(tg.Texts) != 0 || len(sink.events) != 0 {
		t.Fatalf("expected no notices, got %d texts and %d events", len(tg.Texts), len(sink.events))
	}
}

func TestHandleBotPromoted_NotifiesOwnerAndActor(t *testing.T) {
	s, _, tg, _ := newTestSynchronizer()

	if err := s.HandleBotPromoted(context.Background(), promotion(adminB)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ownerTexts := tg.TextsTo(ownerA)
	if len(ownerTexts) != 1 || !strings.Contains(ownerTexts[0].Text, "Connected by: @200") {
		t.Fatalf("unexpected owner notice: %+v", ownerTexts)
	}
	if !strings.Contains(ownerTexts[0].Text, "<a href='https://t.me/c/555/1'>News</a>") {
		t.Fatalf("expected channel link in notice: %s", ownerTexts[0].Text)
	}
	if actorTexts := tg.TextsTo(adminB); len(actorTexts) != 1 {
		t.Fatalf("expected one actor notice, got %d", len(actorTexts))
	}
}

func TestHandleBotPromoted_OwnerActorGetsSingleNotice(t *testing.T) {
	s, _, tg, _ := newTestSynchronizer()

	if err := s.HandleBotPromoted(context.Background(), promotion(ownerA)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tg.Texts) != 1 || strings.Contains(tg.Texts[0].Text, "Connected by") {
		t.Fatalf("unexpected notices: %+v", tg.Texts)
	}
}

func TestHandleBotPromoted_NotificationFailureDoesNotFailSync(t *testing.T) {
	s, repo, tg, sink := newTestSynchronizer()
	tg.SendTextErr = errors.New("bot was blocked by the user")
	sink.err = errors.New("webhook down")

	if err := s.HandleBotPromoted(context.Background(), promotion(adminB)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.Permissions(channel)) != 2 {
		t.Fatal("expected channel to be synced")
	}
}

func TestHandleBotDemoted_ReadsOwnerBeforeDelete(t *testing.T) {
	s, repo, tg, sink := newTestSynchronizer()
	ctx := context.Background()
	if err := s.HandleBotPromoted(ctx, promotion(ownerA)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tg.Texts = nil
	before := len(repo.Calls())

	demotion := telegram.MembershipEvent{
		ChannelID:    channel,
		ChannelTitle: "News",
		ActorID:      adminB,
		OldStatus:    telegram.StatusAdministrator,
		NewStatus:    telegram.StatusKicked,
	}
	if err := s.HandleBotDemoted(ctx, demotion); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := repo.Calls()[before:]
	if !reflect.DeepEqual(calls, []string{"GetChannelOwnerID", "DeleteChannel"}) {
		t.Fatalf("unexpected call order: %v", calls)
	}
	if rows := repo.Permissions(channel); len(rows) != 0 {
		t.Fatalf("expected cascade to remove permissions, got %+v", rows)
	}
	ownerTexts := tg.TextsTo(ownerA)
	if len(ownerTexts) != 1 || !strings.Contains(ownerTexts[0].Text, "Removed by: @200") {
		t.Fatalf("unexpected owner notice: %+v", ownerTexts)
	}
	if len(tg.TextsTo(adminB)) != 1 {
		t.Fatal("expected actor notice")
	}
	if last := sink.events[len(sink.events)-1]; last.Kind != audit.KindChannelDisconnected {
		t.Fatalf("unexpected audit event: %+v", last)
	}
}

func TestRefresh_RejectsNonOwnerWithoutTouchingStore(t *testing.T) {
	s, repo, _, _ := newTestSynchronizer()
	ctx := context.Background()
	if err := s.HandleBotPromoted(ctx, promotion(ownerA)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	syncs := repo.SyncCalls

	if _, err := s.Refresh(ctx, adminB, channel); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if repo.SyncCalls != syncs {
		t.Fatal("expected no sync for non-owner")
	}
}

func TestRefresh_UsesLiveTitleAndFallsBackToStored(t *testing.T) {
	s, repo, tg, _ := newTestSynchronizer()
	ctx := context.Background()
	if err := s.HandleBotPromoted(ctx, promotion(ownerA)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tg.Titles[channel] = "News Daily"
	count, err := s.Refresh(ctx, ownerA, channel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 publishers, got %d", count)
	}
	if title, _ := repo.GetChannelTitle(ctx, channel); title != "News Daily" {
		t.Fatalf("expected live title, got %q", title)
	}

	tg.TitleErr = errors.New("timeout")
	if _, err := s.Refresh(ctx, ownerA, channel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if title, _ := repo.GetChannelTitle(ctx, channel); title != "News Daily" {
		t.Fatalf("expected stored title to be kept, got %q", title)
	}
}

func TestPublishers_FiltersAndNamesMembers(t *testing.T) {
	admins, ownerID := Publishers([]telegram.ChatMember{
		{UserID: 1, Status: telegram.StatusCreator},
		{UserID: 2, DisplayName: "bob", Status: telegram.StatusAdministrator, CanPostMessages: true},
		{UserID: 3, Status: telegram.StatusAdministrator},
	})
	want := []repository.ChannelAdmin{
		{UserID: 1, DisplayName: "User", IsOwner: true},
		{UserID: 2, DisplayName: "bob"},
	}
	if !reflect.DeepEqual(admins, want) || ownerID != 1 {
		t.Fatalf("unexpected publishers: %+v owner=%d", admins, ownerID)
	}
}

func TestHandleBotPromoted_HonorsContextDuringDelay(t *testing.T) {
	repo := repositorytest.NewMemory()
	s := NewSynchronizer(repo, telegramtest.New(), nil, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.HandleBotPromoted(ctx, promotion(ownerA)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if repo.SyncCalls != 0 {
		t.Fatal("expected no sync after cancellation")
	}
}
