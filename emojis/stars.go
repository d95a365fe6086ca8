package emojis

// Star is the reaction added to every highlight and counted as a star
const Star = "⭐"

type starTier struct {
	below int
	emoji string
}

var starTiers = []starTier{
	{5, "⭐"},
	{10, "🌟"},
	{25, "💫"},
}

// Brightest is used for counts above all tiers
const Brightest = "✨"

// ForStars returns the glyph shown in front of the star count
func ForStars(count int) string {
	for _, tier := range starTiers {
		if count < tier.below {
			return tier.emoji
		}
	}
	return Brightest
}

// IsStar returns true if $name is the star reaction
func IsStar(name string) bool {
	return name == Star
}
