package datafetcher

import (
	"fmt"
	"strconv"
	"strings"
)

// parseDecimalString parses the decimal strings the subgraph emits for
// USD amounts.
func parseDecimalString(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty decimal string")
	}
	return strconv.ParseFloat(trimmed, 64)
}
