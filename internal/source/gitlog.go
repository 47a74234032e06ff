package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/zippy-table/internal/table"
)

// ErrNotARepo is returned when the path is not inside a Git repository.
var ErrNotARepo = errors.New("not a git repository")

// gitTimeout bounds every git invocation.
const gitTimeout = 30 * time.Second

// Fields are NUL-separated and commits end in \x01, so subjects may hold
// any printable text.
const (
	logFormat    = "%h%x00%an%x00%ae%x00%at%x00%s%x00%p"
	logSeparator = "%x01"
)

// gitProps is the column order of a git log set.
var gitProps = []string{"hash", "subject", "author", "email", "date", "parents"}

// GitLog returns up to limit commits reachable from HEAD in the repository
// containing path, newest first.
func GitLog(ctx context.Context, path string, limit int) (*Set, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	top, err := runGit(ctx, abs, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, ErrNotARepo
	}
	out, err := runGit(ctx, abs,
		"log",
		fmt.Sprintf("--max-count=%d", max(limit, 1)),
		"--no-optional-locks",
		"--format="+logFormat+logSeparator,
	)
	if err != nil {
		return nil, fmt.Errorf("getting log: %w", err)
	}
	return &Set{
		Name:    filepath.Base(strings.TrimSpace(top)),
		Props:   gitProps,
		Kinds:   map[string]string{"date": "time"},
		Records: parseLog(out),
	}, nil
}

// runGit runs git in dir with optional locks off and stderr kept apart
// from the output.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), msg, err)
	}
	return stdout.String(), nil
}

// parseLog scans the raw output entry by entry instead of splitting it all
// at once.
func parseLog(out string) []table.Record {
	records := make([]table.Record, 0, max(len(out)/120, 8))
	for len(out) > 0 {
		var entry string
		if i := strings.IndexByte(out, '\x01'); i < 0 {
			entry, out = out, ""
		} else {
			entry, out = out[:i], out[i+1:]
		}
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if r, ok := parseCommit(entry); ok {
			records = append(records, r)
		}
	}
	return records
}

func parseCommit(entry string) (table.Record, bool) {
	parts := strings.SplitN(entry, "\x00", 6)
	if len(parts) < 6 {
		return nil, false
	}
	ts, _ := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 64)
	return table.Record{
		"hash":    strings.TrimSpace(parts[0]),
		"author":  strings.TrimSpace(parts[1]),
		"email":   strings.TrimSpace(parts[2]),
		"date":    time.Unix(ts, 0),
		"subject": strings.TrimSpace(parts[4]),
		"parents": strings.TrimSpace(parts[5]),
	}, true
}
