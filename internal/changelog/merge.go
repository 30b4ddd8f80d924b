package changelog

import (
	"strings"
)

// Merge inserts a rendered release section into an existing changelog.
//
// The scan reads only far enough to find the most recent prior release
// heading (a line starting with "## "), skipping the file header and an
// optional "## Unreleased" preamble block. The new section is inserted
// immediately above that heading; every byte from the heading to the end
// of the file passes through untouched, so historical entries are never
// re-parsed or reformatted.
func Merge(existing, section string) string {
	section = strings.TrimRight(section, "\n") + "\n"

	if strings.TrimSpace(existing) == "" {
		return "# Changelog\n\n" + section
	}

	insertAt := insertionOffset(existing)
	if insertAt < 0 {
		// No prior release heading: append below the preamble.
		return strings.TrimRight(existing, "\n") + "\n\n" + section
	}

	head := existing[:insertAt]
	tail := existing[insertAt:]
	if head != "" && !strings.HasSuffix(head, "\n\n") {
		head = strings.TrimRight(head, "\n") + "\n\n"
	}
	return head + section + "\n" + tail
}

// insertionOffset returns the byte offset of the most recent prior release
// heading, or -1 when the changelog has none. An "## Unreleased" block is
// preamble, not history, so the scan continues past it.
func insertionOffset(existing string) int {
	offset := 0
	skippedUnreleased := false

	for offset <= len(existing) {
		lineEnd := strings.IndexByte(existing[offset:], '\n')
		var line string
		if lineEnd < 0 {
			line = existing[offset:]
			lineEnd = len(existing) - offset
		} else {
			line = existing[offset : offset+lineEnd]
		}

		if strings.HasPrefix(line, "## ") {
			title := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			if strings.EqualFold(strings.Trim(title, "[]"), "unreleased") && !skippedUnreleased {
				skippedUnreleased = true
			} else {
				return offset
			}
		}

		offset += lineEnd + 1
	}
	return -1
}
