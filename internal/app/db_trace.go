package app

import "strings"

const maxTracedQueryLength = 512

// formatDBQueryForTrace flattens a SQL statement onto one line so span
// attributes stay readable, truncating oversized statements.
func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
