package screen

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClipLine(t *testing.T) {
	assert.Equal(t, "short", clipLine("short", 10))
	assert.Equal(t, "0123456...", clipLine("0123456789abc", 10))
}

func TestClipLineCountsRunes(t *testing.T) {
	clipped := clipLine(strings.Repeat("é", 30), 10)

	assert.True(t, utf8.ValidString(clipped), "clipping must not split a rune")
	assert.Equal(t, strings.Repeat("é", 7)+"...", clipped)

	// Multi-byte names shorter than the limit in runes pass through even
	// when their byte length exceeds it.
	name := strings.Repeat("é", 9)
	assert.Equal(t, name, clipLine(name, 10))
}
