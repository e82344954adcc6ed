package memory

import (
	"fmt"
	"strconv"
	"strings"
)

var unitMultipliers = []struct {
	suffix string
	mult   uint64
}{
	{"TIB", 1 << 40}, {"GIB", 1 << 30}, {"MIB", 1 << 20}, {"KIB", 1 << 10},
	{"TB", 1 << 40}, {"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10},
	{"T", 1 << 40}, {"G", 1 << 30}, {"M", 1 << 20}, {"K", 1 << 10},
	{"B", 1},
}

// ParseMemoryLimit parses a human-readable size such as "512MB", "2G" or
// "1048576" into bytes. Units are binary (1K = 1024 bytes).
func ParseMemoryLimit(s string) (uint64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return 0, fmt.Errorf("empty memory limit")
	}
	mult := uint64(1)
	for _, u := range unitMultipliers {
		if strings.HasSuffix(v, u.suffix) {
			mult = u.mult
			v = strings.TrimSpace(strings.TrimSuffix(v, u.suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory limit %q: %w", s, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("memory limit must be positive, got %q", s)
	}
	return uint64(f * float64(mult)), nil
}
