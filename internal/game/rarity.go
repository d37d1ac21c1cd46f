package game

import (
	"math/rand/v2"

	"github.com/spacehole-rogue/orbitminer/internal/world"
)

// Rarity names of the stock tiers.
const (
	RarityCommon    = "COMMON"
	RarityUncommon  = "UNCOMMON"
	RarityRare      = "RARE"
	RarityEpic      = "EPIC"
	RarityLegendary = "LEGENDARY"
	RarityMythic    = "MYTHIC"
)

// RarityTier is an immutable weighted resource class.
type RarityTier struct {
	Name      string
	Weight    int
	BaseColor RGB
	TextColor RGB
}

// RarityTable draws tiers in proportion to their weights.
// Table order matters: ties in the subtraction walk resolve to the earlier tier.
type RarityTable struct {
	tiers []*RarityTier
	total int
}

// NewRarityTable builds a table from balance definitions.
// Non-positive weights are a programming error; config validation rejects them first.
func NewRarityTable(defs []world.RarityDef) *RarityTable {
	if len(defs) == 0 {
		panic("game: rarity table needs at least one tier")
	}
	t := &RarityTable{tiers: make([]*RarityTier, 0, len(defs))}
	for _, d := range defs {
		if d.Weight <= 0 {
			panic("game: rarity weight must be positive: " + d.Name)
		}
		t.tiers = append(t.tiers, &RarityTier{
			Name:      d.Name,
			Weight:    d.Weight,
			BaseColor: RGBFromConfig(d.BaseColor),
			TextColor: RGBFromConfig(d.TextColor),
		})
		t.total += d.Weight
	}
	return t
}

// Pick draws r ~ U(0, total) and walks the table subtracting weights until r <= 0.
func (t *RarityTable) Pick(rng *rand.Rand) *RarityTier {
	r := rng.Float64() * float64(t.total)
	for _, tier := range t.tiers {
		r -= float64(tier.Weight)
		if r <= 0 {
			return tier
		}
	}
	// only reachable through float rounding on the last tier
	return t.tiers[len(t.tiers)-1]
}

// TotalWeight is the sum of all tier weights.
func (t *RarityTable) TotalWeight() int { return t.total }

// Tiers returns the tiers in table order.
func (t *RarityTable) Tiers() []*RarityTier { return t.tiers }

// Tier looks up a tier by name.
func (t *RarityTable) Tier(name string) (*RarityTier, bool) {
	for _, tier := range t.tiers {
		if tier.Name == name {
			return tier, true
		}
	}
	return nil, false
}
