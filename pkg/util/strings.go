package util

import (
	"strconv"
	"strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// NormalizeQuery lowercases and trims a free-text search term.
func NormalizeQuery(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
