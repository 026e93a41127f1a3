package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/render"
)

// bodyInput binds the flags that feed note body text: inline, from a
// file, or from stdin.
type bodyInput struct {
	body     string
	bodyFile string
	stdin    bool
	markdown bool
}

func (b *bodyInput) register(fs *flag.FlagSet) {
	fs.StringVar(&b.body, "body", "", "note body text")
	fs.StringVar(&b.bodyFile, "body-file", "", "read the note body from a file")
	fs.BoolVar(&b.stdin, "stdin", false, "read the note body from standard input")
	fs.BoolVar(&b.markdown, "markdown", false, "treat the body as markdown instead of plain text")
}

func bodyFlagNames() []string {
	return []string{"-body", "--body", "-body-file", "--body-file", "-stdin", "--stdin", "-markdown", "--markdown"}
}

// resolveHTML reads the body from its single configured source and
// converts it to the HTML shape note bodies are stored in.
func (b *bodyInput) resolveHTML(stdin io.Reader) (string, error) {
	sources := 0
	if b.body != "" {
		sources++
	}
	if b.bodyFile != "" {
		sources++
	}
	if b.stdin {
		sources++
	}
	if sources != 1 {
		return "", fmt.Errorf("exactly one of -body, -body-file or -stdin is required: %w", common.ErrBadConfig)
	}

	text := b.body
	switch {
	case b.bodyFile != "":
		data, err := os.ReadFile(b.bodyFile)
		if err != nil {
			return "", fmt.Errorf("read body file: %w", err)
		}
		text = string(data)
	case b.stdin:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read body from stdin: %w", err)
		}
		text = string(data)
	}

	if b.markdown {
		return render.MarkdownToHTML(text)
	}
	return render.TextToHTML(text), nil
}
