package analyzer

import (
	"strings"

	"github.com/zombar/realitycheck/internal/models"
)

// Influencer credibility values
const (
	CredibilityHigh    = "high"
	CredibilityMedium  = "medium"
	CredibilityLow     = "low"
	CredibilityUnknown = "unknown"
)

// analyzeSocial scores sponsorship signals in a social post. A nil record
// yields the neutral defaults.
func (e *Engine) analyzeSocial(social *models.SocialRecord) models.SocialAnalysis {
	result := models.SocialAnalysis{
		HasSocialData:         false,
		HashtagAuthenticity:   50,
		InfluencerCredibility: CredibilityUnknown,
		PromotionalKeywords:   []string{},
		DisclosureHashtags:    []string{},
	}
	if social == nil {
		return result
	}

	result.HasSocialData = true
	result.PromotionalDetected = social.PaidPromotionDetected
	result.AffiliateCodesFound = len(social.AffiliateCodes)
	result.HashtagAuthenticity = e.hashtagAuthenticity(social.Hashtags)
	result.InfluencerCredibility, result.EngagementRate = influencerCredibility(social.Engagement)
	result.PromotionalKeywords = e.findPromotionalKeywords(social.Caption)

	for _, tag := range social.Hashtags {
		if e.disclosure[normalizeHashtag(tag)] {
			result.DisclosureHashtags = append(result.DisclosureHashtags, normalizeHashtag(tag))
		}
	}

	probability := 0
	if social.PaidPromotionDetected {
		probability += 40
	}
	if result.AffiliateCodesFound > 0 {
		probability += 30
	}
	if len(result.PromotionalKeywords) > 0 {
		probability += 20
	}
	probability += 10 * len(result.DisclosureHashtags)
	result.SponsoredContentProbability = clamp(probability)

	return result
}

// hashtagAuthenticity compares promotional against organic hashtags:
// 30 when promotional dominate, 85 when organic dominate, 60 otherwise.
func (e *Engine) hashtagAuthenticity(hashtags []string) int {
	spammy, organic := 0, 0
	for _, raw := range hashtags {
		tag := normalizeHashtag(raw)
		switch {
		case matchesHashtag(tag, e.spammyTags):
			spammy++
		case matchesHashtag(tag, e.organicTags):
			organic++
		}
	}

	switch {
	case spammy > organic:
		return 30
	case organic > spammy:
		return 85
	default:
		return 60
	}
}

// influencerCredibility buckets likes/views. This is a coarse engagement
// heuristic, not a verified credibility signal.
func influencerCredibility(engagement *models.Engagement) (string, *float64) {
	if engagement == nil || engagement.Likes == nil || engagement.Views == nil {
		return CredibilityUnknown, nil
	}
	likes, views := *engagement.Likes, *engagement.Views
	if likes <= 0 || views <= 0 {
		return CredibilityUnknown, nil
	}

	rate := float64(likes) / float64(views)
	switch {
	case rate > 0.05:
		return CredibilityHigh, &rate
	case rate > 0.02:
		return CredibilityMedium, &rate
	default:
		return CredibilityLow, &rate
	}
}

func (e *Engine) findPromotionalKeywords(caption string) []string {
	found := []string{}
	lower := strings.ToLower(caption)
	if lower == "" {
		return found
	}
	for _, keyword := range e.promoKeywords {
		if strings.Contains(lower, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}

func normalizeHashtag(tag string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tag)), "#")
}

// matchesHashtag matches short tokens (three letters or fewer) exactly and
// longer tokens as substrings, so "ad" does not fire on "skincareaddict".
func matchesHashtag(tag string, tokens []string) bool {
	for _, token := range tokens {
		if len(token) <= 3 {
			if tag == token {
				return true
			}
			continue
		}
		if strings.Contains(tag, token) {
			return true
		}
	}
	return false
}
