package resolver

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%?`)
	weeksRe   = regexp.MustCompile(`(\d+)(?:\s*[-–]\s*\d+)?\s*(?:weeks?|wks?)?`)
)

// ParsePercent extracts a percentage from free-text potency fields like
// "18%", "18 - 22%" or "THC: 18.5". Returns nil when nothing numeric is
// present. Ranges yield the lower bound.
func ParsePercent(s string) *float64 {
	m := percentRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v < 0 || v > 100 {
		return nil
	}
	return &v
}

// FloweringWeeks parses a flowering time expressed as free text, such as
// "8-9 weeks" or "10 wks", into whole weeks. Ranges yield the lower bound.
// Returns nil when the text carries no usable number.
func FloweringWeeks(s string) *int {
	m := weeksRe.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v <= 0 || v > 52 {
		return nil
	}
	return &v
}

// JoinDescription collapses a multi-line catalog description into a single
// paragraph, dropping blank lines and trimming each line.
func JoinDescription(lines []string) string {
	var parts []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
