package core

import "strings"

// ParseInput splits a status message on whitespace and assigns the tokens to
// Categories() by position. A message with the wrong number of tokens is
// discarded entirely: an empty record is safer than values landing in the
// wrong category.
func ParseInput(raw string) InputRecord {
	tokens := strings.Fields(raw)
	order := Categories()
	out := make(InputRecord, len(order))
	if len(tokens) != len(order) {
		return out
	}
	for i, c := range order {
		out[c] = tokens[i]
	}
	return out
}

// Value returns the trimmed input for c, or "" when absent.
func (r InputRecord) Value(c Category) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r[c])
}

func (r InputRecord) IsEmpty() bool {
	return len(r) == 0
}
