package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortTargets(t *testing.T) {
	sorted := SortTargets([]string{"zeta", "main", "alpha", "development", "master", "dev"})
	assert.Equal(t, []string{"development", "dev", "main", "master", "alpha", "zeta"}, sorted)
}

func TestSortTargets_AlphabeticalWithoutPriority(t *testing.T) {
	sorted := SortTargets([]string{"c", "a", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, sorted)
}

func TestIsProtected(t *testing.T) {
	assert.True(t, IsProtected("development"))
	assert.True(t, IsProtected("Develop"))
	assert.True(t, IsProtected("DEV"))
	assert.False(t, IsProtected("main"))
	assert.False(t, IsProtected("feat/x"))
}

func TestHasCanonicalTarget(t *testing.T) {
	assert.True(t, hasCanonicalTarget([]string{"feat/x", "main"}))
	assert.False(t, hasCanonicalTarget([]string{"feat/x", "experiment"}))
	assert.False(t, hasCanonicalTarget(nil))
}

func TestPickBase(t *testing.T) {
	assert.Equal(t, "develop", pickBase([]string{"main", "develop"}, "feat/x"))
	assert.Equal(t, "main", pickBase([]string{"main", "other"}, "feat/x"))
	assert.Equal(t, "feat/x", pickBase([]string{"experiment"}, "feat/x"))
}
