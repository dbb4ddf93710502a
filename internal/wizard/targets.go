package wizard

import (
	"sort"
	"strings"
)

// targetPriority orders merge-target candidates. Integration branches
// come first, then mainlines, then everything else alphabetically.
var targetPriority = []string{"development", "develop", "dev", "main", "master"}

// protectedBranches are never deleted by cleanup, regardless of what
// the user confirms.
var protectedBranches = map[string]bool{
	"development": true,
	"develop":     true,
	"dev":         true,
}

// IsProtected reports whether branch must survive cleanup.
func IsProtected(branch string) bool {
	return protectedBranches[strings.ToLower(branch)]
}

func priorityIndex(branch string) int {
	for i, name := range targetPriority {
		if branch == name {
			return i
		}
	}
	return len(targetPriority)
}

// SortTargets orders branches by the fixed priority list, then
// alphabetically. The input slice is not modified.
func SortTargets(branches []string) []string {
	sorted := make([]string, len(branches))
	copy(sorted, branches)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := priorityIndex(sorted[i]), priorityIndex(sorted[j])
		if pi != pj {
			return pi < pj
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// hasCanonicalTarget reports whether any priority-list branch exists.
func hasCanonicalTarget(branches []string) bool {
	for _, b := range branches {
		if priorityIndex(b) < len(targetPriority) {
			return true
		}
	}
	return false
}

// pickBase chooses the branch a new development branch forks from: the
// first existing of develop, development, main, master, else the
// feature branch itself.
func pickBase(branches []string, feature string) string {
	for _, candidate := range []string{"develop", "development", "main", "master"} {
		for _, b := range branches {
			if b == candidate {
				return candidate
			}
		}
	}
	return feature
}
