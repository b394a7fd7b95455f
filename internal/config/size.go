package config

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxBodySizeLimit caps receiver.max_body_size. A webhook notification is a
// few hundred bytes; anything past this is a misconfiguration.
const MaxBodySizeLimit int64 = 1 << 30

var sizeUnits = []struct {
	suffix string
	factor int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// parseMaxBodySize turns "64KB", "1mb" or "2048" into bytes. Empty means
// DefaultMaxBodySize. Results must lie in [1, MaxBodySizeLimit].
func parseMaxBodySize(size string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(size))
	if s == "" {
		return DefaultMaxBodySize, nil
	}

	factor := int64(1)
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			factor = u.factor
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}

	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", size, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("size must be positive (got %q)", size)
	}
	// Compare before multiplying so the product cannot overflow.
	if value > MaxBodySizeLimit/factor {
		return 0, fmt.Errorf("size %q exceeds the %d byte limit", size, MaxBodySizeLimit)
	}

	return value * factor, nil
}
