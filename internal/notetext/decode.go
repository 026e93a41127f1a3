// Package notetext recovers human-readable text from the undocumented
// binary blobs the Notes store keeps note bodies in.
//
// This is deliberately a recovery strategy, not a parser: the format is
// proprietary and versioned, so the decoder leans on content heuristics —
// gzip sniffing, UTF-8 plausibility, and a scored extraction of the most
// prose-like byte run — rather than any schema knowledge.
package notetext

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Decode extracts the best-effort plain text from one raw note blob.
//
// Order of attack: decompress if the blob is gzipped (a decompression
// failure is a decode error, not silently swallowed); accept the whole
// payload when it reads as human UTF-8 text; otherwise fall back to scored
// block extraction. Line endings are normalized to \n in every path.
func Decode(data []byte) (string, error) {
	decoded := data
	if bytes.HasPrefix(data, gzipMagic) {
		out, err := gunzip(data)
		if err != nil {
			return "", fmt.Errorf("gunzip note blob: %w", err)
		}
		decoded = out
	}

	if utf8.Valid(decoded) {
		s := strings.Trim(string(decoded), "\x00")
		s = strings.TrimSpace(s)
		if looksLikeHumanText(s) {
			return normalizeText(s), nil
		}
	}

	text := bestEffortExtractText(decoded)
	if strings.TrimSpace(text) == "" {
		return "", common.ErrUndecodableBlob
	}
	return text, nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// looksLikeHumanText samples up to 2048 characters and requires weird
// (control, other than newline/CR/tab) characters to stay under 5% of the
// printable count.
func looksLikeHumanText(s string) bool {
	if s == "" {
		return false
	}
	printable, weird := 0, 0
	n := 0
	for _, r := range s {
		if n >= 2048 {
			break
		}
		n++
		if isWeird(r) {
			weird++
		} else {
			printable++
		}
	}
	return printable > 0 && weird*20 < printable
}

func isWeird(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t'
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// bestEffortExtractText decodes the bytes permissively and splits the
// result into contiguous runs at every control or replacement character,
// then returns the highest-scoring run, or "" when nothing scores above
// the prose threshold.
func bestEffortExtractText(data []byte) string {
	s := strings.ToValidUTF8(string(data), "�")

	var blocks []string
	var current strings.Builder
	flush := func() {
		if b := strings.TrimSpace(current.String()); b != "" {
			blocks = append(blocks, b)
		}
		current.Reset()
	}
	for _, r := range s {
		if isWeird(r) || r == '�' {
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()

	best := ""
	bestScore := 0
	for _, b := range blocks {
		if sc := scoreBlock(b); sc > bestScore {
			best, bestScore = b, sc
		}
	}
	if bestScore <= 20 {
		return ""
	}
	return normalizeText(best)
}

// scoreBlock rates how much a run looks like real prose: alphanumeric
// density, penalized by a quarter of the run length, plus whitespace
// capped at 200 so giant padded runs do not dominate.
func scoreBlock(s string) int {
	alnum, ws, length := 0, 0, 0
	for _, r := range s {
		length++
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			alnum++
		case unicode.IsSpace(r):
			ws++
		}
	}
	dense := alnum - length/4
	if dense < 0 {
		dense = 0
	}
	if ws > 200 {
		ws = 200
	}
	return dense + ws
}
