package lifecycle

import (
	"strconv"
	"strings"
)

// NextDefaultName returns the lowest free name of the form "<prefix>" or
// "<prefix> <n>" (n >= 2) given the names already taken. Comparison is
// case-insensitive; names that do not follow the pattern are ignored.
// Freed slots are reused.
func NextDefaultName(prefix string, taken []string) string {
	base := strings.ToLower(prefix)
	used := make(map[int]struct{}, len(taken))

	for _, name := range taken {
		n := strings.ToLower(strings.TrimSpace(name))
		switch {
		case n == base:
			used[1] = struct{}{}
		case strings.HasPrefix(n, base+" "):
			counter, err := strconv.Atoi(strings.TrimSpace(n[len(base):]))
			if err == nil && counter >= 2 {
				used[counter] = struct{}{}
			}
		}
	}

	slot := 1
	for {
		if _, ok := used[slot]; !ok {
			break
		}
		slot++
	}

	if slot == 1 {
		return prefix
	}
	return prefix + " " + strconv.Itoa(slot)
}
