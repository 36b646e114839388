package isa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robin3773/isa-mutator/internal/mutatorerr"
)

// parseIntLiteral accepts decimal, 0x-prefixed hex, and 0b-prefixed binary
// integer literals, per spec.md §4.E "All field values and fixed-field
// constants accept decimal, 0x… hex, and 0b… binary." Invalid literals
// fail with ConfigError naming the offending text.
func parseIntLiteral(source, text string) (uint64, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0, mutatorerr.New(mutatorerr.ConfigError, source, "empty integer literal")
	}

	neg := false
	if strings.HasPrefix(t, "-") {
		neg = true
		t = t[1:]
	}

	var v uint64
	var err error
	switch {
	case strings.HasPrefix(t, "0x"), strings.HasPrefix(t, "0X"):
		v, err = strconv.ParseUint(t[2:], 16, 64)
	case strings.HasPrefix(t, "0b"), strings.HasPrefix(t, "0B"):
		v, err = strconv.ParseUint(t[2:], 2, 64)
	default:
		v, err = strconv.ParseUint(t, 10, 64)
	}
	if err != nil {
		return 0, mutatorerr.Wrap(mutatorerr.ConfigError, source,
			fmt.Sprintf("invalid integer literal %q", text), err)
	}
	if neg {
		// Two's-complement representation within 64 bits; truncated to the
		// field width by the caller via Mask().
		v = uint64(-int64(v))
	}
	return v, nil
}
