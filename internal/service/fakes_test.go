package service

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/platform"
)

type sentMessage struct {
	channelID string
	content   string
	controls  []platform.Control
}

type sentCard struct {
	channelID string
	card      platform.Card
	controls  []platform.Control
}

// fakeClient is an in-memory platform.Client capturing every call.
type fakeClient struct {
	mu sync.Mutex

	botID    string
	guilds   []platform.Guild
	members  []platform.Member
	channels []platform.Channel
	threads  []platform.Thread
	roles    []platform.Role
	history  []platform.Message

	createThreadErr error
	archiveErr      error
	deleteErr       error
	banErr          error
	kickErr         error
	roleEditErr     error
	sendErr         error

	everyoneCanSend bool

	createdThreads []platform.Thread
	archived       map[string]bool
	deleted        []string
	messages       []sentMessage
	cards          []sentCard
	directs        []sentMessage
	banned         []string
	kicked         []string
	purged         []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{botID: "bot-1", archived: make(map[string]bool), everyoneCanSend: true}
}

func (f *fakeClient) BotUserID() string { return f.botID }

func (f *fakeClient) Guild(ctx context.Context, guildID string) (*platform.Guild, error) {
	for i := range f.guilds {
		if f.guilds[i].ID == guildID {
			return &f.guilds[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *fakeClient) Guilds(ctx context.Context) ([]platform.Guild, error) {
	return f.guilds, nil
}

func (f *fakeClient) Member(ctx context.Context, guildID, userID string) (*platform.Member, error) {
	for i := range f.members {
		if f.members[i].ID == userID {
			return &f.members[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *fakeClient) Members(ctx context.Context, guildID string) ([]platform.Member, error) {
	return f.members, nil
}

func (f *fakeClient) Channels(ctx context.Context, guildID string) ([]platform.Channel, error) {
	return f.channels, nil
}

func (f *fakeClient) ChannelByName(ctx context.Context, guildID, name string) (*platform.Channel, error) {
	for i := range f.channels {
		if f.channels[i].Name == name {
			return &f.channels[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *fakeClient) CreateTextChannel(ctx context.Context, guildID, name string, adminOnly bool) (*platform.Channel, error) {
	ch := platform.Channel{ID: "chan-" + name, GuildID: guildID, Name: name, Type: platform.ChannelText}
	f.channels = append(f.channels, ch)
	return &ch, nil
}

func (f *fakeClient) ChannelMembers(ctx context.Context, guildID, channelID string) ([]platform.Member, error) {
	return f.members, nil
}

func (f *fakeClient) ChannelHistory(ctx context.Context, channelID string, limit int) ([]platform.Message, error) {
	return f.history, nil
}

func (f *fakeClient) Roles(ctx context.Context, guildID string) ([]platform.Role, error) {
	return f.roles, nil
}

func (f *fakeClient) DefaultRoleCanSend(ctx context.Context, guildID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.everyoneCanSend, nil
}

func (f *fakeClient) SetDefaultRoleCanSend(ctx context.Context, guildID string, allow bool) error {
	if f.roleEditErr != nil {
		return f.roleEditErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.everyoneCanSend = allow
	return nil
}

func (f *fakeClient) ActiveThreads(ctx context.Context, guildID, channelID string) ([]platform.Thread, error) {
	return f.threads, nil
}

func (f *fakeClient) Thread(ctx context.Context, threadID string) (*platform.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.createdThreads {
		if f.createdThreads[i].ID == threadID {
			th := f.createdThreads[i]
			th.Archived = f.archived[threadID]
			return &th, nil
		}
	}
	for i := range f.threads {
		if f.threads[i].ID == threadID {
			th := f.threads[i]
			th.Archived = th.Archived || f.archived[threadID]
			return &th, nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *fakeClient) CreatePrivateThread(ctx context.Context, channelID, name string) (*platform.Thread, error) {
	if f.createThreadErr != nil {
		return nil, f.createThreadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	th := platform.Thread{ID: "thread-" + name, ParentID: channelID, Name: name, OwnerID: f.botID}
	f.createdThreads = append(f.createdThreads, th)
	return &th, nil
}

func (f *fakeClient) ArchiveThread(ctx context.Context, threadID string, locked bool) error {
	if f.archiveErr != nil {
		return f.archiveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived[threadID] = true
	return nil
}

func (f *fakeClient) DeleteThread(ctx context.Context, threadID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, threadID)
	return nil
}

func (f *fakeClient) SendMessage(ctx context.Context, channelID, content string) (*platform.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{channelID: channelID, content: content})
	return &platform.Message{ID: "msg", ChannelID: channelID, Content: content}, nil
}

func (f *fakeClient) SendMessageWithControls(ctx context.Context, channelID, content string, controls []platform.Control) (*platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{channelID: channelID, content: content, controls: controls})
	return &platform.Message{ID: "msg", ChannelID: channelID, Content: content}, nil
}

func (f *fakeClient) SendCard(ctx context.Context, channelID string, card platform.Card, controls []platform.Control) (*platform.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards = append(f.cards, sentCard{channelID: channelID, card: card, controls: controls})
	return &platform.Message{ID: "msg", ChannelID: channelID}, nil
}

func (f *fakeClient) SendDirect(ctx context.Context, userID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directs = append(f.directs, sentMessage{channelID: userID, content: content})
	return nil
}

func (f *fakeClient) PurgeBotMessages(ctx context.Context, channelID string) error {
	f.purged = append(f.purged, channelID)
	return nil
}

func (f *fakeClient) BanMember(ctx context.Context, guildID, userID, reason string) error {
	if f.banErr != nil {
		return f.banErr
	}
	f.banned = append(f.banned, userID)
	return nil
}

func (f *fakeClient) KickMember(ctx context.Context, guildID, userID, reason string) error {
	if f.kickErr != nil {
		return f.kickErr
	}
	f.kicked = append(f.kicked, userID)
	return nil
}

func (f *fakeClient) loggedMessages(channelID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.messages {
		if m.channelID == channelID {
			out = append(out, m.content)
		}
	}
	return out
}

func (f *fakeClient) isArchived(threadID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.archived[threadID]
}

// fakeInteraction records every response the services make.
type fakeInteraction struct {
	guildID   string
	channelID string
	actor     platform.Member
	customID  string
	thread    *platform.Thread
	card      *platform.Card
	selected  string
	form      map[string]string

	responses      []string
	controlSets    [][]platform.Control
	forms          []platform.Form
	followups      []string
	deferred       bool
	editedCards    []platform.Card
	editedControls [][]platform.Control
	sourceDisabled bool
}

func (f *fakeInteraction) GuildID() string        { return f.guildID }
func (f *fakeInteraction) ChannelID() string      { return f.channelID }
func (f *fakeInteraction) Actor() platform.Member { return f.actor }
func (f *fakeInteraction) CustomID() string       { return f.customID }
func (f *fakeInteraction) SelectedValue() string  { return f.selected }

func (f *fakeInteraction) Thread(ctx context.Context) (*platform.Thread, bool) {
	if f.thread == nil {
		return nil, false
	}
	return f.thread, true
}

func (f *fakeInteraction) SourceCard() (platform.Card, bool) {
	if f.card == nil {
		return platform.Card{}, false
	}
	return *f.card, true
}

func (f *fakeInteraction) RespondEphemeral(ctx context.Context, content string) error {
	f.responses = append(f.responses, content)
	return nil
}

func (f *fakeInteraction) RespondEphemeralWithControls(ctx context.Context, content string, controls []platform.Control) error {
	f.responses = append(f.responses, content)
	f.controlSets = append(f.controlSets, controls)
	return nil
}

func (f *fakeInteraction) OpenForm(ctx context.Context, form platform.Form) error {
	f.forms = append(f.forms, form)
	return nil
}

func (f *fakeInteraction) Defer(ctx context.Context) error {
	f.deferred = true
	return nil
}

func (f *fakeInteraction) Followup(ctx context.Context, content string) error {
	f.followups = append(f.followups, content)
	return nil
}

func (f *fakeInteraction) EditSource(ctx context.Context, card platform.Card, controls []platform.Control) error {
	f.editedCards = append(f.editedCards, card)
	f.editedControls = append(f.editedControls, controls)
	return nil
}

func (f *fakeInteraction) DisableSourceControls(ctx context.Context) error {
	f.sourceDisabled = true
	return nil
}

func (f *fakeInteraction) FormValue(id string) string { return f.form[id] }

// fakeReportRepo captures created reports and handled stamps.
type fakeReportRepo struct {
	createErr error
	listErr   error
	created   []*domain.Report
	recent    []domain.Report
	handled   []string
}

func (f *fakeReportRepo) Create(ctx context.Context, report *domain.Report) error {
	if f.createErr != nil {
		return f.createErr
	}
	report.ID = "report-1"
	f.created = append(f.created, report)
	return nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	for _, r := range f.created {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeReportRepo) MarkHandled(ctx context.Context, id, handledBy string, resolution domain.ReportResolution) error {
	f.handled = append(f.handled, id+":"+string(resolution))
	return nil
}

func (f *fakeReportRepo) ListRecent(ctx context.Context, limit int) ([]domain.Report, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > 0 && len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

// fakeModerationRepo captures warning and ban rows.
type fakeModerationRepo struct {
	warnings []*domain.Warning
	bans     []*domain.Ban
}

func (f *fakeModerationRepo) CreateWarning(ctx context.Context, warning *domain.Warning) error {
	warning.ID = "warning-1"
	f.warnings = append(f.warnings, warning)
	return nil
}

func (f *fakeModerationRepo) CreateBan(ctx context.Context, ban *domain.Ban) error {
	ban.ID = "ban-1"
	f.bans = append(f.bans, ban)
	return nil
}

func (f *fakeModerationRepo) ListWarnings(ctx context.Context, guildID, userID string, limit int) ([]domain.Warning, error) {
	var out []domain.Warning
	for _, w := range f.warnings {
		if w.GuildID == guildID && w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, nil
}

// staticSettings backs the log sink in tests.
type staticSettings struct {
	settings domain.Settings
}

func (s staticSettings) Get(ctx context.Context, guildID string) (domain.Settings, error) {
	return s.settings, nil
}
