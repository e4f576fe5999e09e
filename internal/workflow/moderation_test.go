package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/moderation-service/internal/platform"
)

func TestExtractReportedID(t *testing.T) {
	id, err := ExtractReportedID("Reported User ID: 123456789")
	require.NoError(t, err)
	assert.Equal(t, "123456789", id)

	id, err = ExtractReportedID("(Reported User ID: 42)")
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	_, err = ExtractReportedID("User not found automatically. Action must be manual.")
	assert.ErrorIs(t, err, ErrNoReportedID)

	_, err = ExtractReportedID("")
	assert.ErrorIs(t, err, ErrNoReportedID)
}

func TestHandledCard(t *testing.T) {
	card := platform.Card{Title: "🚨 New Report Filed", Color: platform.ColorOrange}

	handled := HandledCard(card, "Banned", "<@mod-1>")

	assert.Equal(t, "🚨 Report Handled: BANNED", handled.Title)
	assert.Equal(t, platform.ColorGrey, handled.Color)
	require.NotEmpty(t, handled.Fields)
	last := handled.Fields[len(handled.Fields)-1]
	assert.Equal(t, "Handled By", last.Name)
	assert.Equal(t, "<@mod-1>", last.Value)

	assert.True(t, CardHandled(handled))
	assert.False(t, CardHandled(card))
}
