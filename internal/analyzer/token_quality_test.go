package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolscout/poolscout/internal/types"
)

func TestEvaluateTokenQuality_NilDetails(t *testing.T) {
	assert.Nil(t, EvaluateTokenQuality(nil))
}

func TestEvaluateTokenQuality_Flags(t *testing.T) {
	info := EvaluateTokenQuality(&types.TokenDetails{
		Providers: []string{"CoinGecko", "1inch"},
		Tags:      []string{"tokens"},
		EIP2612:   true,
		Rating:    7,
	})
	require.NotNil(t, info)

	assert.True(t, info.HasInProviders)
	assert.True(t, info.HasInternalTags)
	assert.True(t, info.HasEIP2612)
	assert.Equal(t, 7.0, info.Rating)
}

func TestEvaluateTokenQuality_EmptyDetails(t *testing.T) {
	info := EvaluateTokenQuality(&types.TokenDetails{})
	require.NotNil(t, info)

	assert.False(t, info.HasInProviders)
	assert.False(t, info.HasInternalTags)
	assert.False(t, info.HasEIP2612)
	assert.Zero(t, info.Rating)
}

func TestAnnotateTokenQuality_ScoreTiers(t *testing.T) {
	cases := []struct {
		name    string
		quality types.TokenQualityInfo
		score   string
	}{
		{"all signals", types.TokenQualityInfo{HasInProviders: true, HasInternalTags: true, HasEIP2612: true, Rating: 4}, "Excellent"},
		{"providers and tags and rating", types.TokenQualityInfo{HasInProviders: true, HasInternalTags: true, Rating: 1}, "Good"},
		{"providers and tags", types.TokenQualityInfo{HasInProviders: true, HasInternalTags: true}, "Fair"},
		{"tags only", types.TokenQualityInfo{HasInternalTags: true}, "Poor"},
		{"nothing", types.TokenQualityInfo{}, "Very Poor"},
	}

	for _, tc := range cases {
		report := AnnotateTokenQuality(&tc.quality)
		require.NotNil(t, report, tc.name)
		assert.Equal(t, tc.score, report.QualityScore, tc.name)
	}
}

func TestAnnotateTokenQuality_RatingCapped(t *testing.T) {
	capped := AnnotateTokenQuality(&types.TokenQualityInfo{Rating: 4})
	overflow := AnnotateTokenQuality(&types.TokenQualityInfo{Rating: 10})

	assert.Equal(t, capped.QualityScore, overflow.QualityScore)
}

func TestAnnotateTokenQuality_MonotonicInEachSignal(t *testing.T) {
	tiers := map[string]int{"Very Poor": 0, "Poor": 1, "Fair": 2, "Good": 3, "Excellent": 4}

	base := types.TokenQualityInfo{HasInternalTags: true, Rating: 2}
	withProviders := base
	withProviders.HasInProviders = true
	withEIP := base
	withEIP.HasEIP2612 = true
	withHigherRating := base
	withHigherRating.Rating = 4

	baseTier := tiers[AnnotateTokenQuality(&base).QualityScore]
	for name, improved := range map[string]types.TokenQualityInfo{
		"providers": withProviders,
		"eip2612":   withEIP,
		"rating":    withHigherRating,
	} {
		improvedTier := tiers[AnnotateTokenQuality(&improved).QualityScore]
		assert.GreaterOrEqual(t, improvedTier, baseTier, "adding %s lowered the tier", name)
	}
}

func TestAnnotateTokenQuality_NilQuality(t *testing.T) {
	assert.Nil(t, AnnotateTokenQuality(nil))
}
