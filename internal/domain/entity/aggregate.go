package entity

import (
	"strconv"
	"strings"
)

// AggregateRow is the total quantity ordered by one buyer in a single report fetch.
type AggregateRow struct {
	Buyer string `json:"buyer"`
	Total int    `json:"total"`
}

// ParseQuantity reads the leading integer of s, ignoring surrounding whitespace
// and anything after the digits. Values without a leading integer count as 0.
func ParseQuantity(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
