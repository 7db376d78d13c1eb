/*

Token quality from static metadata: provider listings, internal tags,
gasless-approval support and aggregator rating. No market data involved.

*/

package analyzer

import (
	"strings"

	"github.com/poolscout/poolscout/internal/types"
)

// EvaluateTokenQuality derives the quality flags for one token from its
// metadata. A nil details value means the lookup found nothing and the
// token cannot be evaluated.
func EvaluateTokenQuality(details *types.TokenDetails) *types.TokenQualityInfo {
	if details == nil {
		return nil
	}

	info := &types.TokenQualityInfo{}
	if len(details.Providers) > 0 {
		info.HasInProviders = true
	}
	if len(details.Tags) > 0 {
		info.HasInternalTags = true
	}
	if details.EIP2612 {
		info.HasEIP2612 = true
	}
	if details.Rating > 0 {
		info.Rating = details.Rating
	}
	return info
}

// AnnotateTokenQuality maps the quality flags onto a composite 0-10 score
// and the qualitative report used in recommendation prompts. Each present
// signal adds a fixed weight (+3 providers, +2 tags, +1 gasless approval,
// +rating capped at 4), so more positive signals never lower the score.
func AnnotateTokenQuality(quality *types.TokenQualityInfo) *types.TokenQualityReport {
	if quality == nil {
		return nil
	}

	compositeScore := 0.0

	if quality.HasInProviders {
		compositeScore += 3
	}
	if quality.HasInternalTags {
		compositeScore += 2
	}
	if quality.HasEIP2612 {
		compositeScore += 1
	}
	if quality.Rating > 0 {
		rating := quality.Rating
		if rating > 4 {
			rating = 4
		}
		compositeScore += rating
	}

	var qualityScore, trustworthiness, assessment, recommendation string
	switch {
	case compositeScore >= 8:
		qualityScore = "Excellent"
		trustworthiness = "Very High"
		assessment = "This token demonstrates excellent quality with strong provider support, proper tagging, and high rating. It appears to be a well-established and trustworthy token."
		recommendation = "This token shows excellent quality metrics. Consider it for LP positions with confidence."
	case compositeScore >= 6:
		qualityScore = "Good"
		trustworthiness = "High"
		assessment = "This token shows good quality with solid provider support and reasonable rating. It appears to be a reliable token with good standing."
		recommendation = "This token shows good quality metrics. Suitable for LP positions with moderate confidence."
	case compositeScore >= 4:
		qualityScore = "Fair"
		trustworthiness = "Moderate"
		assessment = "This token shows fair quality with some provider support and moderate rating. Exercise caution and verify additional information."
		recommendation = "This token shows fair quality metrics. Consider smaller position sizes and additional due diligence."
	case compositeScore >= 2:
		qualityScore = "Poor"
		trustworthiness = "Low"
		assessment = "This token shows poor quality with limited provider support and low rating. High risk of being unreliable or potentially problematic."
		recommendation = "This token shows poor quality metrics. Consider avoiding or using very small position sizes with extreme caution."
	default:
		qualityScore = "Very Poor"
		trustworthiness = "Very Low"
		assessment = "This token shows very poor quality with minimal provider support and very low rating. High risk of being unreliable, scam, or problematic."
		recommendation = "This token shows very poor quality metrics. Strongly recommend avoiding this token for LP positions."
	}

	assessment += " Specific factors: " + strings.Join(qualityFactorDetails(quality), ", ") + "."

	return &types.TokenQualityReport{
		TokenQualityInfo: *quality,
		QualityScore:     qualityScore,
		Trustworthiness:  trustworthiness,
		Assessment:       assessment,
		Recommendation:   recommendation,
	}
}

func qualityFactorDetails(quality *types.TokenQualityInfo) []string {
	details := make([]string, 0, 4)
	if quality.HasInProviders {
		details = append(details, "listed in major providers")
	} else {
		details = append(details, "not listed in major providers")
	}
	if quality.HasInternalTags {
		details = append(details, "has internal quality tags")
	} else {
		details = append(details, "no internal quality tags")
	}
	if quality.HasEIP2612 {
		details = append(details, "supports EIP-2612 (gasless approvals)")
	} else {
		details = append(details, "does not support EIP-2612")
	}
	if quality.Rating > 0 {
		details = append(details, "has a positive aggregator rating")
	} else {
		details = append(details, "no rating available")
	}
	return details
}
