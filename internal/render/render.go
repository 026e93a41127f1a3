// Package render converts between the body formats involved in an export:
// the HTML the Notes application stores, the markdown written to disk, and
// plain text typed on the command line.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/yuin/goldmark"

	"github.com/JaviSoto/apple-notes-cli/internal/models"
)

// NoteToMarkdown renders the canonical contents.md body for a note: a
// level-1 heading with the title, a blank line, then the converted body.
func NoteToMarkdown(note models.Note) (string, error) {
	body, err := HTMLToMarkdown(note.BodyHTML)
	if err != nil {
		return "", fmt.Errorf("render note %s: %w", note.ID, err)
	}
	return TitledMarkdown(note.Title, body), nil
}

// TitledMarkdown frames an already-markdown body under a level-1 heading
// carrying the note title.
func TitledMarkdown(title, body string) string {
	return fmt.Sprintf("# %s\n\n%s", title, strings.TrimSpace(body))
}

// HTMLToMarkdown converts a note body from HTML to markdown.
func HTMLToMarkdown(body string) (string, error) {
	conv := md.NewConverter("", true, nil)
	return conv.ConvertString(body)
}

// MarkdownToHTML renders markdown to HTML wrapped in a container div, the
// shape the Notes application expects note bodies in.
func MarkdownToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return "<div>" + buf.String() + "</div>", nil
}

// TextToHTML wraps plain text in escaped <div> blocks, one per line.
// Notes stores bodies as HTML, so even plain text goes in this shape.
func TextToHTML(text string) string {
	var out strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if text == "" {
			break
		}
		out.WriteString("<div>")
		out.WriteString(html.EscapeString(line))
		out.WriteString("</div>\n")
	}
	if out.Len() == 0 {
		return "<div></div>\n"
	}
	return out.String()
}
