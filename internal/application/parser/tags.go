package parser

import (
	"strings"
)

// ParsedFields maps protocol labels to the raw values found in one reply.
// Lookups of absent labels return the defaults: "" for scalar labels and an
// empty, non-nil slice for list labels.
type ParsedFields map[Label]string

// String returns the value stored for label, or "".
func (f ParsedFields) String(label Label) string {
	return f[label]
}

// Has reports whether the reply carried label at all.
func (f ParsedFields) Has(label Label) bool {
	_, ok := f[label]
	return ok
}

// List splits the value stored for label on the list separator, trimming each
// element and dropping empty ones.
func (f ParsedFields) List(label Label) []string {
	return SplitList(f[label])
}

// ParseTags scans text line by line and extracts the value of every line that
// starts with one of labels followed by the delimiter. Matching is exact and
// case-sensitive; a later line for the same label replaces an earlier one; all
// other lines are ignored. It never fails: unusable input yields empty fields.
func ParseTags(text string, labels []Label) ParsedFields {
	fields := make(ParsedFields, len(labels))
	if text == "" || len(labels) == 0 {
		return fields
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, label := range labels {
			tag := label.Tag()
			if strings.HasPrefix(line, tag) {
				fields[label] = strings.TrimSpace(line[len(tag):])
				break
			}
		}
	}
	return fields
}

// SplitList splits a list value on the list separator. Elements are trimmed
// and empty elements are dropped; the result is never nil.
func SplitList(value string) []string {
	items := []string{}
	for _, part := range strings.Split(value, ListSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
