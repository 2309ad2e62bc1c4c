package screen

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ncarel/pipdash/internal/srv/asset"
	"github.com/ncarel/pipdash/internal/srv/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInventory(t *testing.T, lineCount int) string {
	filename := filepath.Join(t.TempDir(), "inv.txt")
	var sb strings.Builder
	for i := 0; i < lineCount; i++ {
		fmt.Fprintf(&sb, "item %d\n", i)
	}
	require.NoError(t, ioutil.WriteFile(filename, []byte(sb.String()), 0660))
	return filename
}

func TestInvScrollClampsAtBounds(t *testing.T) {
	s := NewInvScreen(asset.LoadFontSet(t.TempDir()), writeInventory(t, 30), 1, 3)

	s.HandleEvent(event.UP_EVENT)
	assert.Equal(t, 0, s.scrollOffset, "scrolling up at the top stays put")

	maxScroll := 30 - s.visibleLines()
	for i := 0; i < 100; i++ {
		s.HandleEvent(event.DOWN_EVENT)
	}
	assert.Equal(t, maxScroll, s.scrollOffset, "scrolling down stops at the last page")
}

func TestInvShortFileDoesNotScroll(t *testing.T) {
	s := NewInvScreen(asset.LoadFontSet(t.TempDir()), writeInventory(t, 3), 1, 3)

	s.HandleEvent(event.DOWN_EVENT)
	assert.Equal(t, 0, s.scrollOffset)
}

func TestInvSelectReloadsFile(t *testing.T) {
	filename := writeInventory(t, 30)
	s := NewInvScreen(asset.LoadFontSet(t.TempDir()), filename, 1, 3)

	s.HandleEvent(event.DOWN_EVENT)
	require.Equal(t, 1, s.scrollOffset)

	require.NoError(t, ioutil.WriteFile(filename, []byte("only line\n"), 0660))
	s.HandleEvent(event.SELECT_EVENT)

	assert.Equal(t, []string{"only line"}, s.lines)
	assert.Equal(t, 0, s.scrollOffset, "reload rewinds to the top")
}

func TestInvMissingFileShowsPlaceholder(t *testing.T) {
	s := NewInvScreen(asset.LoadFontSet(t.TempDir()), filepath.Join(t.TempDir(), "inv.txt"), 1, 3)

	assert.NotEmpty(t, s.lines)
	assert.Contains(t, s.lines[0], "not found")
	assert.NotNil(t, s.Render())
}
