// Package changelog composes markdown release sections from change records
// and merges them into existing changelog files without ever rewriting
// history: everything below the inserted section is treated as opaque text.
package changelog

import (
	"time"

	"github.com/ariel-frischer/relver/internal/change"
)

// Group names, in their fixed rendering order.
const (
	GroupBreaking = "Breaking Changes"
	GroupFeatures = "Features"
	GroupFixes    = "Fixes"
	GroupNotes    = "Notes"
)

// Entry is one rendered release section: a version, its date, and the
// records grouped by kind.
type Entry struct {
	Version string
	Date    time.Time
	Groups  []Section
}

// Section is one non-empty group of records under a fixed heading.
type Section struct {
	Title   string
	Records []change.Record
}

// NewEntry groups records into the fixed section order, omitting empty
// groups. Custom-kind records land under Notes.
func NewEntry(version string, date time.Time, records []change.Record) Entry {
	buckets := map[string][]change.Record{}
	for _, r := range records {
		buckets[groupFor(r.Kind)] = append(buckets[groupFor(r.Kind)], r)
	}

	entry := Entry{Version: version, Date: date}
	for _, title := range []string{GroupBreaking, GroupFeatures, GroupFixes, GroupNotes} {
		if rs := buckets[title]; len(rs) > 0 {
			entry.Groups = append(entry.Groups, Section{Title: title, Records: rs})
		}
	}
	return entry
}

func groupFor(k change.Kind) string {
	switch k {
	case change.Breaking:
		return GroupBreaking
	case change.Feature:
		return GroupFeatures
	case change.Fix:
		return GroupFixes
	default:
		return GroupNotes
	}
}

// IsEmpty reports whether the entry has no records at all.
func (e Entry) IsEmpty() bool {
	return len(e.Groups) == 0
}
