package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geetocli/geeto/internal/gitx"
	"github.com/geetocli/geeto/internal/runner"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		subject string
		want    Category
	}{
		{"commit: add parser", CategoryCommit},
		{"commit (amend): fix typo", CategoryAmend},
		{"commit (merge): merge branch", CategoryMergeCommit},
		{"merge feature/x: Fast-forward", CategoryMerge},
		{"merge origin/main: Merge made by the 'ort' strategy.", CategoryMerge},
		{"checkout: moving from main to feature/x", CategoryCheckout},
		{"pull: Fast-forward", CategoryPull},
		{"pull --rebase: updating HEAD", CategoryPull},
		{"rebase (finish): returning to refs/heads/feature/x", CategoryRebase},
		{"rebase: aborting", CategoryRebase},
		{"reset: moving to HEAD~1", CategoryReset},
		{"cherry-pick: add parser", CategoryCherryPick},
		{"Branch: renamed refs/heads/a to refs/heads/b", CategoryBranch},
		{"clone: from github.com/geetocli/geeto", CategoryUnknown},
		{"", CategoryUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.subject), "subject: %q", tt.subject)
	}
}

func TestClassify_OrderingAmendBeforeCommit(t *testing.T) {
	// Both subjects begin with "commit"; the more specific prefixes
	// must win.
	assert.Equal(t, CategoryAmend, Classify("commit (amend): xyz"))
	assert.Equal(t, CategoryMergeCommit, Classify("commit (merge): xyz"))
	assert.Equal(t, CategoryCommit, Classify("commit: abc"))
}

func TestLastAction(t *testing.T) {
	rec := &runner.Recorder{Stubs: []runner.Stub{
		{Match: "git reflog", Out: "aaa111\tHEAD@{0}\tcommit: abc\nbbb222\tHEAD@{1}\tcheckout: moving from main to feat"},
	}}
	facts := gitx.New(rec)

	action, err := LastAction(facts, "/repo")
	require.NoError(t, err)
	assert.Equal(t, CategoryCommit, action.Type)
	assert.Equal(t, "abc", action.Description)
	assert.Equal(t, "aaa111", action.Hash)
	assert.Equal(t, "bbb222", action.PrevHash)
}

func TestLastAction_Amend(t *testing.T) {
	rec := &runner.Recorder{Stubs: []runner.Stub{
		{Match: "git reflog", Out: "aaa111\tHEAD@{0}\tcommit (amend): xyz\nbbb222\tHEAD@{1}\tcommit: abc"},
	}}
	facts := gitx.New(rec)

	action, err := LastAction(facts, "/repo")
	require.NoError(t, err)
	assert.Equal(t, CategoryAmend, action.Type)
}

func TestLastAction_TooFewEntries(t *testing.T) {
	rec := &runner.Recorder{Stubs: []runner.Stub{
		{Match: "git reflog", Out: "aaa111\tHEAD@{0}\tcommit: initial"},
	}}
	facts := gitx.New(rec)

	_, err := LastAction(facts, "/repo")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "add parser", describe("commit: add parser"))
	assert.Equal(t, "no prefix here", describe("no prefix here"))
}
