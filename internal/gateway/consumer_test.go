package gateway

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateShortStringUnchanged(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 500))
	assert.Equal(t, "", truncate("", 10))
}

func TestTruncateCutsAtLimit(t *testing.T) {
	assert.Equal(t, "abcde", truncate("abcdefgh", 5))
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	// "héllo wörld" with multi-byte characters straddling the cut point.
	s := "héllo wörld"
	for max := 0; max <= len(s); max++ {
		out := truncate(s, max)
		assert.True(t, utf8.ValidString(out), "cut at %d produced invalid UTF-8: %q", max, out)
		assert.LessOrEqual(t, len(out), max)
	}
}

func TestTruncateMultiByteContent(t *testing.T) {
	s := "日本語のテキスト"
	out := truncate(s, 7)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "日本", out)
}
