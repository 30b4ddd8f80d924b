package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historicalChangelog = `# Changelog

All notable changes to widget are documented here.

## 1.2.3 - 2026-07-01

### Fixes

- stop polishing nonexistent widgets

## 1.2.2 - 2026-06-15

### Fixes

-   historical entry with   odd spacing that must survive untouched
`

func TestMerge_InsertsAboveMostRecentRelease(t *testing.T) {
	section := "## 1.3.0 - 2026-08-23\n\n### Features\n\n- add polish levels\n"

	merged := Merge(historicalChangelog, section)

	newIdx := strings.Index(merged, "## 1.3.0")
	oldIdx := strings.Index(merged, "## 1.2.3")
	require.Greater(t, newIdx, 0)
	require.Greater(t, oldIdx, newIdx, "new section must sit above the prior release")
}

func TestMerge_HistoryBytesUntouched(t *testing.T) {
	section := "## 1.3.0 - 2026-08-23\n\n### Features\n\n- x\n"
	merged := Merge(historicalChangelog, section)

	// Everything from the prior release heading down is byte-identical.
	tail := historicalChangelog[strings.Index(historicalChangelog, "## 1.2.3"):]
	assert.True(t, strings.HasSuffix(merged, tail), "historical tail was modified")
	// The file header is also preserved.
	assert.True(t, strings.HasPrefix(merged, "# Changelog\n\nAll notable changes"))
}

func TestMerge_SkipsUnreleasedPreamble(t *testing.T) {
	existing := "# Changelog\n\n## Unreleased\n\n- pending doc tweak\n\n## 1.0.0 - 2026-01-01\n\n### Features\n\n- initial\n"
	section := "## 1.1.0 - 2026-08-23\n\n### Fixes\n\n- y\n"

	merged := Merge(existing, section)

	unreleasedIdx := strings.Index(merged, "## Unreleased")
	newIdx := strings.Index(merged, "## 1.1.0")
	oldIdx := strings.Index(merged, "## 1.0.0")
	assert.Less(t, unreleasedIdx, newIdx, "unreleased preamble stays above the new section")
	assert.Less(t, newIdx, oldIdx)
}

func TestMerge_BracketedUnreleasedHeading(t *testing.T) {
	existing := "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2026-01-01\n\n- initial\n"
	merged := Merge(existing, "## 1.1.0 - 2026-08-23\n\n- z\n")
	assert.Less(t, strings.Index(merged, "[Unreleased]"), strings.Index(merged, "## 1.1.0"))
	assert.Less(t, strings.Index(merged, "## 1.1.0"), strings.Index(merged, "[1.0.0]"))
}

func TestMerge_NoPriorReleases(t *testing.T) {
	existing := "# Changelog\n\nNothing released yet.\n"
	merged := Merge(existing, "## 0.1.0 - 2026-08-23\n\n- first\n")
	assert.True(t, strings.HasPrefix(merged, "# Changelog\n\nNothing released yet.\n\n## 0.1.0"))
}

func TestMerge_EmptyFile(t *testing.T) {
	merged := Merge("", "## 0.1.0 - 2026-08-23\n\n- first\n")
	assert.Equal(t, "# Changelog\n\n## 0.1.0 - 2026-08-23\n\n- first\n", merged)
}

func TestMerge_Repeated(t *testing.T) {
	// Two successive releases stack newest-first without disturbing older
	// sections.
	merged := Merge(historicalChangelog, "## 1.3.0 - 2026-08-23\n\n- a\n")
	merged = Merge(merged, "## 1.4.0 - 2026-08-24\n\n- b\n")

	i14 := strings.Index(merged, "## 1.4.0")
	i13 := strings.Index(merged, "## 1.3.0")
	i123 := strings.Index(merged, "## 1.2.3")
	assert.Less(t, i14, i13)
	assert.Less(t, i13, i123)
}
