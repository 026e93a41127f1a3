package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaviSoto/apple-notes-cli/internal/models"
)

func TestTextToHTML_WrapsLinesAndEscapes(t *testing.T) {
	html := TextToHTML("a<b\nc&d")
	assert.Contains(t, html, "&lt;b")
	assert.Contains(t, html, "&amp;")
	assert.Contains(t, html, "<div>")
	assert.Equal(t, 2, strings.Count(html, "</div>"))
}

func TestTextToHTML_EmptyInput(t *testing.T) {
	assert.Equal(t, "<div></div>\n", TextToHTML(""))
}

func TestHTMLToMarkdown_Basic(t *testing.T) {
	md, err := HTMLToMarkdown("<div>Hello <b>world</b></div>")
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(md), "hello")
	assert.Contains(t, md, "**world**")
}

func TestMarkdownToHTML_WrapsInContainer(t *testing.T) {
	html, err := MarkdownToHTML("# Title\n\nsome *body*")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, "<div>"))
	assert.True(t, strings.HasSuffix(html, "</div>"))
	assert.Contains(t, html, "<h1>")
	assert.Contains(t, html, "<em>body</em>")
}

func TestNoteToMarkdown_HeadingThenBody(t *testing.T) {
	note := models.Note{
		ID:         "x-coredata://UUID/ICNote/p1",
		Title:      "Shopping",
		BodyHTML:   "<div>milk</div><div>eggs</div>",
		CreatedAt:  time.Now(),
		ModifiedAt: time.Now(),
	}
	md, err := NoteToMarkdown(note)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Shopping\n\n"), "got %q", md)
	assert.Contains(t, md, "milk")
	assert.Contains(t, md, "eggs")
}
