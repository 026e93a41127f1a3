package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/JaviSoto/apple-notes-cli/internal/logging"
	"github.com/JaviSoto/apple-notes-cli/internal/models"
)

// Osascript talks to the live Notes application by spawning the system
// automation binary: JXA (JavaScript) for JSON-shaped queries, AppleScript
// for writes and for streaming listings.
//
// The automation channel is a single shared external resource; it is not
// safe for concurrent use and callers must serialize access to it.
type Osascript struct {
	bin   string
	debug bool
	log   logging.Logger
}

// NewOsascript builds a bridge spawning the given binary. debug dumps
// every script before it runs.
func NewOsascript(bin string, debug bool, log logging.Logger) *Osascript {
	if log == nil {
		log = logging.NewNop()
	}
	return &Osascript{bin: bin, debug: debug, log: log}
}

func (o *Osascript) run(ctx context.Context, args []string, stdin string) (string, error) {
	if o.debug {
		o.log.Debug(ctx, "running osascript", "args", args, "script", stdin)
	}

	cmd := exec.CommandContext(ctx, o.bin, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("osascript failed (%s): %s", err, stderr.String())
		}
		return "", fmt.Errorf("failed to spawn osascript (are you on macOS?): %w", err)
	}

	// In some environments, osascript emits output on stderr even on
	// success.
	if stdout.Len() == 0 && stderr.Len() > 0 {
		return stderr.String(), nil
	}
	return stdout.String(), nil
}

// runStreaming spawns the binary and invokes onStderrLine for every stderr
// line as it arrives, while stdout is drained concurrently.
func (o *Osascript) runStreaming(ctx context.Context, args []string, stdin string, onStderrLine func(string)) error {
	if o.debug {
		o.log.Debug(ctx, "streaming osascript", "args", args, "script", stdin)
	}

	cmd := exec.CommandContext(ctx, o.bin, args...)
	cmd.Stdin = strings.NewReader(stdin)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn osascript (are you on macOS?): %w", err)
	}

	stdoutC := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(stdout)
		stdoutC <- string(b)
	}()

	var stderrBuf strings.Builder
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		stderrBuf.WriteString(line)
		stderrBuf.WriteString("\n")
		onStderrLine(line)
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return fmt.Errorf("read osascript stderr: %w", err)
	}

	stdoutBuf := <-stdoutC
	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(stderrBuf.String())
		if s := strings.TrimSpace(stdoutBuf); s != "" {
			msg += "\n" + s
		}
		return fmt.Errorf("osascript failed (%s): %s", err, msg)
	}
	return nil
}

// jxaJSON runs a JXA script and decodes its single-line JSON output.
func jxaJSON[T any](ctx context.Context, o *Osascript, script string) (T, error) {
	var zero T
	out, err := o.run(ctx, []string{"-l", "JavaScript", "-"}, script)
	if err != nil {
		return zero, fmt.Errorf("osascript (JXA) failed: %w", err)
	}
	out = strings.TrimSpace(out)
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		return zero, fmt.Errorf("failed to parse osascript JSON output: %s: %w", out, err)
	}
	return v, nil
}

// buildJXA renders the query script. The payload travels as JSON so no
// user input is ever spliced into code.
func buildJXA(action string, payload any) (string, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	q := strconv.Quote(action)
	return fmt.Sprintf(`
const Notes = Application("Notes");
Notes.includeStandardAdditions = true;

const input = %s;

function folderPathFor(folder, accountId) {
  const parts = [folder.name()];
  const seen = {};
  let current = folder;
  while (true) {
    const c = current.container();
    if (!c) break;
    let cid = null;
    try { cid = c.id(); } catch (e) { break; }
    if (cid === accountId) break;
    if (seen[cid]) break;
    seen[cid] = true;
    parts.push(c.name());
    current = c;
  }
  parts.reverse();
  return parts;
}

function listFolders(accountName) {
  const acct = Notes.accounts().find(a => a.name() === accountName);
  if (!acct) throw new Error("account not found: " + accountName);
  const accountId = acct.id();
  const byId = {};
  acct.folders().forEach(f => {
    const id = f.id();
    const path = folderPathFor(f, accountId);
    const existing = byId[id];
    if (!existing || path.length < existing.path.length) {
      byId[id] = {
        id: id,
        name: f.name(),
        account: accountName,
        path: path,
      };
    }
  });
  return Object.values(byId);
}

function resolveFolderIds(accountName, wantParts) {
  const acct = Notes.accounts().find(a => a.name() === accountName);
  if (!acct) throw new Error("account not found: " + accountName);
  const accountId = acct.id();
  const want = wantParts.join(" > ");
  const last = wantParts[wantParts.length - 1];
  const candidates = acct.folders().filter(f => f.name() === last);
  const matches = candidates
    .filter(f => folderPathFor(f, accountId).join(" > ") === want)
    .map(f => f.id());
  return matches;
}

function main() {
  switch (%s) {
    case "accounts.list": {
      return Notes.accounts().map(a => ({ name: a.name() }));
    }
    case "folders.list": {
      return listFolders(input.account);
    }
    case "folders.resolve": {
      return { matches: resolveFolderIds(input.account, input.path) };
    }
    case "notes.get": {
      const n = Notes.notes.byId(input.id);
      return {
        id: n.id(),
        title: n.name(),
        folder_id: n.container().id(),
        created_at: n.creationDate().toISOString(),
        modified_at: n.modificationDate().toISOString(),
        body_html: String(n.body()),
      };
    }
    default:
      throw new Error("unknown action: " + %s);
  }
}

console.log(JSON.stringify(main()));
`, payloadJSON, q, q), nil
}

func (o *Osascript) resolveFolderID(ctx context.Context, account string, folderPath []string) (string, error) {
	type payload struct {
		Account string   `json:"account"`
		Path    []string `json:"path"`
	}
	type result struct {
		Matches []string `json:"matches"`
	}

	script, err := buildJXA("folders.resolve", payload{Account: account, Path: folderPath})
	if err != nil {
		return "", err
	}
	out, err := jxaJSON[result](ctx, o, script)
	if err != nil {
		return "", err
	}
	switch len(out.Matches) {
	case 0:
		return "", fmt.Errorf("folder not found: %s", strings.Join(folderPath, " > "))
	case 1:
		return out.Matches[0], nil
	default:
		return "", fmt.Errorf("folder path is ambiguous (%d matches): %s",
			len(out.Matches), strings.Join(folderPath, " > "))
	}
}

func (o *Osascript) ListAccounts(ctx context.Context) ([]models.Account, error) {
	script, err := buildJXA("accounts.list", struct{}{})
	if err != nil {
		return nil, err
	}
	return jxaJSON[[]models.Account](ctx, o, script)
}

func (o *Osascript) ListFolders(ctx context.Context, account string) ([]models.Folder, error) {
	type payload struct {
		Account string `json:"account"`
	}
	script, err := buildJXA("folders.list", payload{Account: account})
	if err != nil {
		return nil, err
	}
	return jxaJSON[[]models.Folder](ctx, o, script)
}

func (o *Osascript) ListNotes(ctx context.Context, account string) ([]models.NoteSummary, error) {
	var out []models.NoteSummary
	err := o.StreamNoteSummaries(ctx, account, nil, func(n models.NoteSummary) {
		out = append(out, n)
	})
	return out, err
}

func (o *Osascript) ListNotesInFolder(ctx context.Context, account string, folderPath []string) ([]models.NoteSummary, error) {
	var out []models.NoteSummary
	err := o.StreamNoteSummaries(ctx, account, folderPath, func(n models.NoteSummary) {
		out = append(out, n)
	})
	return out, err
}

// StreamNoteSummaries lists via AppleScript, which is significantly
// faster and more reliable than JXA for metadata across large accounts.
// Summaries stream over stderr `log` lines so the caller can count
// progress; duplicate ids are dropped.
func (o *Osascript) StreamNoteSummaries(ctx context.Context, account string, folderPath []string, onNote func(models.NoteSummary)) error {
	var script string
	if folderPath != nil {
		folderID, err := o.resolveFolderID(ctx, account, folderPath)
		if err != nil {
			return err
		}
		script = fmt.Sprintf(streamFolderScript, strconv.Quote(folderID))
	} else {
		script = fmt.Sprintf(streamAccountScript, strconv.Quote(account))
	}

	seen := make(map[string]struct{})
	return o.runStreaming(ctx, []string{"-"}, script, func(line string) {
		payload := extractLogPayload(line)
		if payload == "" || !strings.Contains(payload, "\t") {
			return
		}
		parsed, err := parseNoteSummariesTSV(payload)
		if err != nil || len(parsed) == 0 {
			return
		}
		n := parsed[len(parsed)-1]
		if _, dup := seen[n.ID]; dup {
			return
		}
		seen[n.ID] = struct{}{}
		onNote(n)
	})
}

func (o *Osascript) GetNote(ctx context.Context, id string) (models.Note, error) {
	type payload struct {
		ID string `json:"id"`
	}
	script, err := buildJXA("notes.get", payload{ID: id})
	if err != nil {
		return models.Note{}, err
	}
	return jxaJSON[models.Note](ctx, o, script)
}

func (o *Osascript) CreateNoteHTML(ctx context.Context, account string, folderPath []string, title, bodyHTML string) (string, error) {
	// AppleScript for write operations (JXA `make` is unreliable on some
	// systems).
	folderID, err := o.resolveFolderID(ctx, account, folderPath)
	if err != nil {
		return "", err
	}
	script := fmt.Sprintf(`
tell application "Notes"
  set targetFolder to folder id %s
  set n to make new note at targetFolder with properties {name:%s, body:%s}
  return id of n as text
end tell
`, strconv.Quote(folderID), strconv.Quote(title), strconv.Quote(bodyHTML))
	out, err := o.run(ctx, []string{"-"}, script)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *Osascript) SetNoteTitle(ctx context.Context, id, title string) error {
	script := fmt.Sprintf(`
tell application "Notes"
  set n to note id %s
  set name of n to %s
end tell
`, strconv.Quote(id), strconv.Quote(title))
	_, err := o.run(ctx, []string{"-"}, script)
	return err
}

func (o *Osascript) SetNoteBodyHTML(ctx context.Context, id, bodyHTML string) error {
	script := fmt.Sprintf(`
tell application "Notes"
  set n to note id %s
  set body of n to %s
end tell
`, strconv.Quote(id), strconv.Quote(bodyHTML))
	_, err := o.run(ctx, []string{"-"}, script)
	return err
}

func (o *Osascript) AppendNoteBodyHTML(ctx context.Context, id, bodyHTML string) error {
	script := fmt.Sprintf(`
tell application "Notes"
  set n to note id %s
  set body of n to (body of n as text) & %s
end tell
`, strconv.Quote(id), strconv.Quote(bodyHTML))
	_, err := o.run(ctx, []string{"-"}, script)
	return err
}

func (o *Osascript) DeleteNote(ctx context.Context, id string) error {
	script := fmt.Sprintf(`
tell application "Notes"
  set n to note id %s
  delete n
end tell
`, strconv.Quote(id))
	_, err := o.run(ctx, []string{"-"}, script)
	return err
}

func (o *Osascript) MoveNote(ctx context.Context, id, account string, folderPath []string) error {
	folderID, err := o.resolveFolderID(ctx, account, folderPath)
	if err != nil {
		return err
	}
	script := fmt.Sprintf(`
tell application "Notes"
  set n to note id %s
  set targetFolder to folder id %s
  move n to targetFolder
end tell
`, strconv.Quote(id), strconv.Quote(folderID))
	_, err = o.run(ctx, []string{"-"}, script)
	return err
}

func (o *Osascript) CreateFolder(ctx context.Context, account string, parentPath []string, name string) (string, error) {
	var script string
	if len(parentPath) == 0 {
		script = fmt.Sprintf(`
tell application "Notes"
  tell account %s
    set f to make new folder with properties {name:%s}
    return id of f as text
  end tell
end tell
`, strconv.Quote(account), strconv.Quote(name))
	} else {
		parentID, err := o.resolveFolderID(ctx, account, parentPath)
		if err != nil {
			return "", err
		}
		script = fmt.Sprintf(`
tell application "Notes"
  set parentFolder to folder id %s
  set f to make new folder at parentFolder with properties {name:%s}
  return id of f as text
end tell
`, strconv.Quote(parentID), strconv.Quote(name))
	}
	out, err := o.run(ctx, []string{"-"}, script)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *Osascript) RenameFolder(ctx context.Context, account string, folderPath []string, name string) error {
	folderID, err := o.resolveFolderID(ctx, account, folderPath)
	if err != nil {
		return err
	}
	script := fmt.Sprintf(`
tell application "Notes"
  set f to folder id %s
  set name of f to %s
end tell
`, strconv.Quote(folderID), strconv.Quote(name))
	_, err = o.run(ctx, []string{"-"}, script)
	return err
}

func (o *Osascript) DeleteFolder(ctx context.Context, account string, folderPath []string) error {
	folderID, err := o.resolveFolderID(ctx, account, folderPath)
	if err != nil {
		return err
	}
	script := fmt.Sprintf(`
tell application "Notes"
  set f to folder id %s
  delete f
end tell
`, strconv.Quote(folderID))
	_, err = o.run(ctx, []string{"-"}, script)
	return err
}

// AppleScript listing bodies. Titles get tabs and returns replaced so the
// TSV framing survives.
const streamFolderScript = `
on replace_chars(s, find, repl)
  set AppleScript's text item delimiters to find
  set parts to every text item of s
  set AppleScript's text item delimiters to repl
  set s2 to parts as text
  set AppleScript's text item delimiters to ""
  return s2
end replace_chars

tell application "Notes"
  set f to folder id %s
  set folderId to (id of f as text)
  set ns to every note of f
  repeat with n in ns
    set t to (name of n as text)
    set t to my replace_chars(t, tab, " ")
    set t to my replace_chars(t, return, " ")
    log (id of n as text) & tab & t & tab & folderId
  end repeat
  return "OK"
end tell
`

const streamAccountScript = `
on replace_chars(s, find, repl)
  set AppleScript's text item delimiters to find
  set parts to every text item of s
  set AppleScript's text item delimiters to repl
  set s2 to parts as text
  set AppleScript's text item delimiters to ""
  return s2
end replace_chars

tell application "Notes"
  tell account %s
    repeat with f in folders
      set folderId to (id of f as text)
      set ns to every note of f
      repeat with n in ns
        set t to (name of n as text)
        set t to my replace_chars(t, tab, " ")
        set t to my replace_chars(t, return, " ")
        log (id of n as text) & tab & t & tab & folderId
      end repeat
    end repeat
    return "OK"
  end tell
end tell
`
