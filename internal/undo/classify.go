// Package undo reverses the most recent git operation. The last action
// is classified from the reflog and mapped to a category-specific
// reversal procedure, so users don't have to remember which flavor of
// reset undoes what.
package undo

import (
	"fmt"
	"strings"

	"github.com/geetocli/geeto/internal/gitx"
)

// Category is the kind of operation the last reflog entry records.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCommit
	CategoryAmend
	CategoryMerge
	CategoryMergeCommit
	CategoryCheckout
	CategoryPull
	CategoryRebase
	CategoryReset
	CategoryCherryPick
	CategoryBranch
)

func (c Category) String() string {
	switch c {
	case CategoryCommit:
		return "commit"
	case CategoryAmend:
		return "amend"
	case CategoryMerge:
		return "merge"
	case CategoryMergeCommit:
		return "merge-commit"
	case CategoryCheckout:
		return "checkout"
	case CategoryPull:
		return "pull"
	case CategoryRebase:
		return "rebase"
	case CategoryReset:
		return "reset"
	case CategoryCherryPick:
		return "cherry-pick"
	case CategoryBranch:
		return "branch"
	default:
		return "unknown"
	}
}

// classifyTable maps reflog subject prefixes to categories. Order
// matters: "commit (amend):" must win over "commit:", and
// "commit (merge):" likewise. First match wins.
var classifyTable = []struct {
	prefix string
	cat    Category
}{
	{"commit (amend):", CategoryAmend},
	{"commit (merge):", CategoryMergeCommit},
	{"commit:", CategoryCommit},
	{"merge", CategoryMerge},
	{"checkout:", CategoryCheckout},
	{"pull", CategoryPull},
	{"rebase", CategoryRebase},
	{"reset:", CategoryReset},
	{"cherry-pick:", CategoryCherryPick},
	{"Branch:", CategoryBranch},
}

// Classify maps a reflog subject line to a Category.
func Classify(subject string) Category {
	for _, row := range classifyTable {
		if strings.HasPrefix(subject, row.prefix) {
			return row.cat
		}
	}
	return CategoryUnknown
}

// Action describes the most recent git operation: what it was, and the
// HEAD positions before and after it. Derived fresh from the reflog
// each time; never persisted.
type Action struct {
	Type        Category
	Description string
	Subject     string
	Hash        string
	PrevHash    string
}

// LastAction reads the two most recent reflog entries and classifies
// the latest. Classification looks only at this two-entry window; a
// composite operation (a pull that merged) is classified by its
// outermost subject only.
func LastAction(facts *gitx.Facts, dir string) (*Action, error) {
	entries, err := facts.ReflogEntries(dir, 2)
	if err != nil {
		return nil, err
	}
	if len(entries) < 2 {
		return nil, fmt.Errorf("not enough history to undo: need at least two reflog entries, have %d", len(entries))
	}
	subject := entries[0].Subject
	return &Action{
		Type:        Classify(subject),
		Description: describe(subject),
		Subject:     subject,
		Hash:        entries[0].Hash,
		PrevHash:    entries[1].Hash,
	}, nil
}

// describe extracts the human-readable part after the subject prefix.
func describe(subject string) string {
	if idx := strings.Index(subject, ": "); idx >= 0 {
		return strings.TrimSpace(subject[idx+2:])
	}
	return subject
}
