package gitx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ReflogEntry is one line of `git reflog --format=%H%x09%gd%x09%gs`.
type ReflogEntry struct {
	Hash     string
	Selector string // e.g. HEAD@{0}
	Subject  string // e.g. "commit: add parser"
}

// ParseReflogLine parses a tab-separated reflog line. Returns ok=false
// for anything that doesn't have the three fields.
func ParseReflogLine(line string) (ReflogEntry, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 || parts[0] == "" {
		return ReflogEntry{}, false
	}
	return ReflogEntry{
		Hash:     parts[0],
		Selector: parts[1],
		Subject:  parts[2],
	}, true
}

// ParseAheadBehind parses `rev-list --left-right --count` output
// ("2\t1" meaning 2 ahead, 1 behind).
func ParseAheadBehind(out string) (ahead, behind int, ok bool) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(fields[0])
	b, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}

// checkoutSubjectRe matches the human-readable subject git writes for
// checkouts. Subject format is not a stable interface; parse failures
// are surfaced as ok=false, never as errors.
var checkoutSubjectRe = regexp.MustCompile(`^checkout: moving from (\S+) to (\S+)$`)

// ParseCheckoutSubject extracts the source and destination ref from a
// "checkout: moving from X to Y" reflog subject.
func ParseCheckoutSubject(subject string) (from, to string, ok bool) {
	m := checkoutSubjectRe.FindStringSubmatch(subject)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// ExtractOwnerRepo parses a GitHub remote URL and returns owner/repo.
func ExtractOwnerRepo(remoteURL string) (owner, repo string, err error) {
	// Handle SSH: git@github.com:owner/repo.git
	if strings.HasPrefix(remoteURL, "git@") {
		parts := strings.SplitN(remoteURL, ":", 2)
		if len(parts) != 2 {
			return "", "", fmt.Errorf("cannot parse SSH remote: %s", remoteURL)
		}
		path := strings.TrimSuffix(parts[1], ".git")
		segments := strings.SplitN(path, "/", 2)
		if len(segments) != 2 {
			return "", "", fmt.Errorf("cannot parse owner/repo from: %s", remoteURL)
		}
		return segments[0], segments[1], nil
	}

	// Handle HTTPS: https://github.com/owner/repo.git
	trimmed := strings.TrimSuffix(remoteURL, ".git")
	trimmed = strings.TrimPrefix(trimmed, "https://github.com/")
	trimmed = strings.TrimPrefix(trimmed, "http://github.com/")
	segments := strings.SplitN(trimmed, "/", 2)
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return "", "", fmt.Errorf("cannot parse owner/repo from: %s", remoteURL)
	}
	return segments[0], segments[1], nil
}
