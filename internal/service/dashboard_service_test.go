package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/platform"
)

type fakeSettingsRepo struct {
	stored map[string]domain.Settings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{stored: make(map[string]domain.Settings)}
}

func (f *fakeSettingsRepo) Get(ctx context.Context, guildID string) (domain.Settings, error) {
	settings, ok := f.stored[guildID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return settings, nil
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, guildID string, settings domain.Settings) error {
	f.stored[guildID] = settings
	return nil
}

type fakeActivityRepo struct {
	entries []domain.ActivityEntry
}

func (f *fakeActivityRepo) Create(ctx context.Context, entry *domain.ActivityEntry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityRepo) CreateBatch(ctx context.Context, entries []domain.ActivityEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeActivityRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActivityEntry, error) {
	var out []domain.ActivityEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newDashboardFixture(t *testing.T) (*fakeClient, *fakeSettingsRepo, *fakeActivityRepo, *DashboardService) {
	t.Helper()
	client := newFakeClient()
	client.guilds = []platform.Guild{
		{ID: "guild-1", Name: "Owned Guild", OwnerID: "mod-1"},
		{ID: "guild-2", Name: "Other Guild", OwnerID: "someone"},
	}
	client.channels = []platform.Channel{
		{ID: "chan-1", Name: "general", Type: platform.ChannelText},
		{ID: "chan-2", Name: "logs", Type: platform.ChannelText},
	}
	settings := newFakeSettingsRepo()
	activity := &fakeActivityRepo{}
	svc := NewDashboardService(client, settings, activity, zap.NewNop())
	return client, settings, activity, svc
}

func TestVisibleServersOwnerAndAdminOnly(t *testing.T) {
	client, _, _, svc := newDashboardFixture(t)
	// mod-1 owns guild-1 and is a plain member elsewhere.
	client.members = []platform.Member{{ID: "mod-1", Username: "mod"}}

	guilds, err := svc.VisibleServers(context.Background(), "mod-1")
	require.NoError(t, err)

	require.Len(t, guilds, 1)
	assert.Equal(t, "guild-1", guilds[0].ID)
}

func TestVisibleServersIncludesManagedGuilds(t *testing.T) {
	client, _, _, svc := newDashboardFixture(t)
	client.members = []platform.Member{
		{ID: "mod-1", Username: "mod", Permissions: platform.PermissionSet{ManageGuild: true}},
	}

	guilds, err := svc.VisibleServers(context.Background(), "mod-1")
	require.NoError(t, err)

	assert.Len(t, guilds, 2)
}

func TestGetSettingsSeedsDefaultsOnFirstRead(t *testing.T) {
	_, settingsRepo, _, svc := newDashboardFixture(t)

	settings, err := svc.GetSettings(context.Background(), "guild-1")
	require.NoError(t, err)

	assert.Equal(t, "Owned Guild", settings["server_name"])
	assert.Equal(t, "guild-1", settings["server_id"])
	assert.Equal(t, "!", settings["prefix"])

	// Seeded blob is persisted so the next read is a plain fetch.
	stored, ok := settingsRepo.stored["guild-1"]
	require.True(t, ok)
	assert.Equal(t, settings, stored)
}

func TestSaveSettingsRequiresManagement(t *testing.T) {
	_, _, _, svc := newDashboardFixture(t)

	err := svc.SaveSettings(context.Background(), moderatorWith(platform.PermissionSet{}), "guild-1",
		domain.Settings{"prefix": "?"})
	assertDomainCode(t, err, "PERMISSION_DENIED")

	err = svc.SaveSettings(context.Background(), moderatorWith(platform.PermissionSet{ManageGuild: true}), "guild-1",
		domain.Settings{"prefix": "?"})
	require.NoError(t, err)
}

func TestSetLoggingValidatesChannels(t *testing.T) {
	_, settingsRepo, _, svc := newDashboardFixture(t)
	mod := moderatorWith(platform.PermissionSet{Administrator: true})

	err := svc.SetLogging(context.Background(), mod, "guild-1", LoggingConfig{TicketLogChannelID: "missing"})
	assertDomainCode(t, err, "USER_INPUT")

	err = svc.SetLogging(context.Background(), mod, "guild-1", LoggingConfig{TicketLogChannelID: "chan-2"})
	require.NoError(t, err)
	assert.Equal(t, "chan-2", settingsRepo.stored["guild-1"].TicketLogChannelID())
}

func TestGetLoggingReflectsStoredSettings(t *testing.T) {
	_, settingsRepo, _, svc := newDashboardFixture(t)
	settingsRepo.stored["guild-1"] = domain.Settings{
		"ticket_log_channel_id":     "chan-2",
		"suggestion_log_channel_id": "chan-1",
	}

	cfg, err := svc.GetLogging(context.Background(), "guild-1")
	require.NoError(t, err)

	assert.Equal(t, "chan-2", cfg.TicketLogChannelID)
	assert.Equal(t, "chan-1", cfg.SuggestionLogChannelID)
}

func TestMemberActivityListsRows(t *testing.T) {
	client, _, activity, svc := newDashboardFixture(t)
	client.members = []platform.Member{{ID: "user-2", Username: "bob"}}
	activity.entries = []domain.ActivityEntry{
		{UserID: "user-2", Type: domain.ActivityMessage, Content: "hi"},
		{UserID: "someone-else", Type: domain.ActivityMessage},
	}

	entries, err := svc.MemberActivity(context.Background(), "guild-1", "user-2", 25)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "hi", entries[0].Content)
}

func TestMemberActivityUnknownMember(t *testing.T) {
	_, _, _, svc := newDashboardFixture(t)

	_, err := svc.MemberActivity(context.Background(), "guild-1", "nobody", 25)
	assertDomainCode(t, err, "NOT_FOUND")
}
