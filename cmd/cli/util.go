package cli

import "strconv"

// parseUint is a small shared helper for the many commands that take a
// numeric id (proposal id, call id, reward id) as their first argument.
func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
