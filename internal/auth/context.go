package auth

import (
	"context"

	"github.com/spec-kit/moderation-service/internal/platform"
	apperrors "github.com/spec-kit/moderation-service/pkg/util"
)

// ModeratorContext is the authenticated caller resolved against a guild:
// identity account plus chat-platform member and capability flags.
type ModeratorContext struct {
	Identity *IdentityUser
	ChatID   string
	Member   *platform.Member
}

// Permissions returns the member's capability flags.
func (m *ModeratorContext) Permissions() platform.PermissionSet {
	if m == nil || m.Member == nil {
		return platform.PermissionSet{}
	}
	return m.Member.Permissions
}

// ContextResolver builds moderator contexts for API handlers.
type ContextResolver struct {
	resolver *ChatIDResolver
	client   platform.Client
}

// NewContextResolver constructs the resolver.
func NewContextResolver(resolver *ChatIDResolver, client platform.Client) *ContextResolver {
	return &ContextResolver{resolver: resolver, client: client}
}

// Resolve maps the identity user onto a guild member. Fails with
// PERMISSION_DENIED when no chat account is linked or the member is not in
// the guild.
func (r *ContextResolver) Resolve(ctx context.Context, user *IdentityUser, guildID string) (*ModeratorContext, error) {
	chatID := r.resolver.Resolve(ctx, user)
	if chatID == "" {
		return nil, apperrors.NewPermissionDenied("no linked chat account found")
	}
	member, err := r.client.Member(ctx, guildID, chatID)
	if err != nil {
		return nil, apperrors.NewPermissionDenied("member not found in this server")
	}
	return &ModeratorContext{Identity: user, ChatID: chatID, Member: member}, nil
}

// ChatID resolves only the linked chat id, without any guild lookup.
func (r *ContextResolver) ChatID(ctx context.Context, user *IdentityUser) string {
	return r.resolver.Resolve(ctx, user)
}
