package advisor

import (
	"encoding/json"
	"regexp"

	"github.com/poolscout/poolscout/internal/types"
)

var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")

// ExtractJSONArray parses a model response into recommendations. It first
// looks for a fenced JSON block, then falls back to treating the whole
// response as JSON. A response that parses neither way returns ok=false.
func ExtractJSONArray(response string) ([]types.PoolRecommendation, bool) {
	if m := fencedJSONPattern.FindStringSubmatch(response); m != nil {
		var recs []types.PoolRecommendation
		if err := json.Unmarshal([]byte(m[1]), &recs); err == nil {
			return recs, true
		}
	}

	var recs []types.PoolRecommendation
	if err := json.Unmarshal([]byte(response), &recs); err == nil {
		return recs, true
	}
	return nil, false
}
