package auth

import (
	"context"
	"fmt"

	"github.com/spec-kit/moderation-service/internal/repository"
)

// ExtractStrategy attempts to resolve the chat-platform id linked to an
// identity-provider account. Strategies are tried in a fixed priority order;
// the first success wins.
type ExtractStrategy interface {
	Name() string
	Extract(ctx context.Context, user *IdentityUser) (string, bool)
}

// ChatIDResolver runs the ordered strategy list.
type ChatIDResolver struct {
	strategies []ExtractStrategy
}

// NewChatIDResolver builds the default strategy chain: provider metadata
// keys, then the identities list, then the moderator mapping table.
func NewChatIDResolver(provider string, moderators repository.ModeratorRepository) *ChatIDResolver {
	strategies := []ExtractStrategy{
		metadataStrategy{},
		identitiesStrategy{provider: provider},
	}
	if moderators != nil {
		strategies = append(strategies, mappingTableStrategy{moderators: moderators})
	}
	return &ChatIDResolver{strategies: strategies}
}

// Resolve returns the linked chat id, or empty when no strategy succeeds.
func (r *ChatIDResolver) Resolve(ctx context.Context, user *IdentityUser) string {
	if user == nil {
		return ""
	}
	for _, strategy := range r.strategies {
		if id, ok := strategy.Extract(ctx, user); ok {
			return id
		}
	}
	return ""
}

// metadataStrategy reads the well-known provider metadata keys.
type metadataStrategy struct{}

func (metadataStrategy) Name() string { return "metadata" }

func (metadataStrategy) Extract(ctx context.Context, user *IdentityUser) (string, bool) {
	for _, key := range []string{"provider_id", "sub", "id"} {
		if id := stringValue(user.Metadata, key); id != "" {
			return id, true
		}
	}
	return "", false
}

// identitiesStrategy scans the linked-identity list for the chat provider.
type identitiesStrategy struct {
	provider string
}

func (identitiesStrategy) Name() string { return "identities" }

func (s identitiesStrategy) Extract(ctx context.Context, user *IdentityUser) (string, bool) {
	for _, identity := range user.Identities {
		if identity.Provider != s.provider {
			continue
		}
		data, _ := identity.Data["identity_data"].(map[string]any)
		if data == nil {
			data = identity.Data
		}
		for _, key := range []string{"sub", "id", "provider_id"} {
			if id := stringValue(data, key); id != "" {
				return id, true
			}
		}
	}
	return "", false
}

// mappingTableStrategy falls back to the moderators mapping table.
type mappingTableStrategy struct {
	moderators repository.ModeratorRepository
}

func (mappingTableStrategy) Name() string { return "mapping_table" }

func (s mappingTableStrategy) Extract(ctx context.Context, user *IdentityUser) (string, bool) {
	id, err := s.moderators.LinkedChatID(ctx, user.ID)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func stringValue(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}
