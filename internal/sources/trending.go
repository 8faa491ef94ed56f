package sources

import "github.com/pruthviraj-chavan/happytools1/internal/domain"

// Seed is a hand-curated tool with the category it is filed under.
type Seed struct {
	Category  string
	Candidate domain.Candidate
}

// TrendingSeeds returns the Google Trending list, most trending first.
func TrendingSeeds() []Seed {
	return []Seed{
		trending("ChatGPT", "OpenAI's powerful conversational AI assistant", "Chat Bot", 95, "https://chat.openai.com"),
		trending("Midjourney", "AI art generator creating stunning images from text", "Image Generation", 92, "https://midjourney.com"),
		trending("Claude", "Anthropic's helpful, harmless, and honest AI assistant", "Chat Bot", 88, "https://claude.ai"),
		trending("Perplexity", "AI-powered search engine with real-time information", "Search Engine", 85, "https://perplexity.ai"),
		trending("Runway ML", "AI video generation and editing platform", "Video Generation", 82, "https://runwayml.com"),
	}
}

func trending(name, description, cat string, score int, link string) Seed {
	return Seed{
		Category: cat,
		Candidate: domain.Candidate{
			Name:          name,
			Tagline:       description,
			Description:   description,
			URL:           link,
			Website:       link,
			Pricing:       domain.PricingFreemium,
			TrendingScore: score,
			Topics:        []string{cat},
		},
	}
}
