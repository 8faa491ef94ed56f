package producthunt

import "github.com/pruthviraj-chavan/happytools1/internal/domain"

// ToCandidate maps a post onto the shared candidate shape. The reduced query carries no
// topics, so every post lands in the General category downstream.
func ToCandidate(p Post) domain.Candidate {
	description := p.Description
	if description == "" {
		description = p.Tagline
	}
	return domain.Candidate{
		PHID:        p.ID,
		Name:        p.Name,
		Tagline:     p.Tagline,
		Description: description,
		URL:         p.URL,
		Website:     p.Website,
		Pricing:     domain.PricingUnknown,
		Votes:       p.VotesCount,
		VotesKnown:  true,
		FeaturedAt:  p.CreatedAt,
	}
}
