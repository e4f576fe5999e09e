package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticModerators struct {
	chatID string
	err    error
}

func (s staticModerators) LinkedChatID(ctx context.Context, identityUserID string) (string, error) {
	return s.chatID, s.err
}

func TestChatIDResolver_MetadataWinsFirst(t *testing.T) {
	resolver := NewChatIDResolver("discord", staticModerators{chatID: "mapped"})
	user := &IdentityUser{
		ID:       "identity-1",
		Metadata: map[string]any{"provider_id": "111"},
		Identities: []LinkedIdentity{
			{Provider: "discord", Data: map[string]any{"id": "222"}},
		},
	}

	assert.Equal(t, "111", resolver.Resolve(context.Background(), user))
}

func TestChatIDResolver_IdentitiesFallback(t *testing.T) {
	resolver := NewChatIDResolver("discord", staticModerators{})
	user := &IdentityUser{
		ID: "identity-1",
		Identities: []LinkedIdentity{
			{Provider: "github", Data: map[string]any{"id": "999"}},
			{Provider: "discord", Data: map[string]any{
				"identity_data": map[string]any{"sub": "333"},
			}},
		},
	}

	assert.Equal(t, "333", resolver.Resolve(context.Background(), user))
}

func TestChatIDResolver_MappingTableLast(t *testing.T) {
	resolver := NewChatIDResolver("discord", staticModerators{chatID: "444"})
	user := &IdentityUser{ID: "identity-1"}

	assert.Equal(t, "444", resolver.Resolve(context.Background(), user))
}

func TestChatIDResolver_NumericMetadataValue(t *testing.T) {
	resolver := NewChatIDResolver("discord", nil)
	user := &IdentityUser{Metadata: map[string]any{"sub": float64(1234567890)}}

	assert.Equal(t, "1234567890", resolver.Resolve(context.Background(), user))
}

func TestChatIDResolver_NoMatch(t *testing.T) {
	resolver := NewChatIDResolver("discord", staticModerators{})
	assert.Empty(t, resolver.Resolve(context.Background(), &IdentityUser{ID: "x"}))
	assert.Empty(t, resolver.Resolve(context.Background(), nil))
}
