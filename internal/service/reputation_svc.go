package service

// Reputation tiers, lowest to highest.
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// Points thresholds for each tier.
const (
	silverPoints   = 100
	goldPoints     = 500
	platinumPoints = 1000
)

// TierForPoints derives a user's tier from their total points. Points never
// decrease, so tiers never demote.
func TierForPoints(points int) string {
	switch {
	case points >= platinumPoints:
		return TierPlatinum
	case points >= goldPoints:
		return TierGold
	case points >= silverPoints:
		return TierSilver
	default:
		return TierBronze
	}
}
