package export

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoteDirName(t *testing.T) {
	id := "x-coredata://UUID/ICNote/p123"

	assert.Equal(t, "HelloWorld-p123", noteDirName("Hello/World", id))
	assert.Equal(t, "Untitled-p123", noteDirName("   ", id))
	assert.Equal(t, "Untitled-p123", noteDirName(`///`, id))

	long := strings.Repeat("a", 200)
	got := noteDirName(long, id)
	assert.Equal(t, strings.Repeat("a", 80)+"-p123", got)
}

func TestNoteDir(t *testing.T) {
	got := noteDir("/out", []string{"Per:sonal", "Archive"}, "A", "p1")
	assert.Equal(t, filepath.Join("/out", "Personal", "Archive", "A-p1"), got)
}
