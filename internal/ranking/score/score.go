package score

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Weight constants. The global variants are percentage weights over the total;
// the personalized terms other than engagement are additive flat bonuses. The
// asymmetry is intentional and load-bearing: the two modes must not be unified.
const (
	GlobalRecencyWeight    = 0.30
	GlobalEngagementWeight = 0.70
	GlobalEngagementCap    = 100.0

	PersonalEngagementWeight = 0.15
	PersonalEngagementCap    = 50.0

	FellowBonus     = 12.5
	CollectiveBonus = 4.5
	OwnItemPenalty  = 20.0

	TypePreferenceStep = 0.1
	TypePreferenceMax  = 1.0
	TypePreferenceTopN = 3
)

// Engagement weights per interaction type.
const (
	HeartWeight            = 1.0
	PraiseWeight           = 3.5
	BronzeTrophyWeight     = 10.0
	GoldenTrophyWeight     = 15.0
	DiamondTrophyWeight    = 20.0
	PositiveCritiqueWeight = 8.0
	NegativeCritiqueWeight = 3.0
	NeutralCritiqueWeight  = 3.0
	CommentWeight          = 0.5
)

// EngagementCounts are the aggregate interaction counts for one item.
// Comments exclude critique-thread replies. Galleries have no hearts, praise
// or critiques; their award tiers land in the trophy fields.
type EngagementCounts struct {
	Hearts            int64
	Praise            int64
	BronzeTrophies    int64
	GoldenTrophies    int64
	DiamondTrophies   int64
	PositiveCritiques int64
	NegativeCritiques int64
	NeutralCritiques  int64
	Comments          int64
}

// ItemFacts is everything the calculator needs to know about one candidate item.
type ItemFacts struct {
	AuthorID     uuid.UUID
	CreatedAt    time.Time
	PostType     string
	CollectiveID *uuid.UUID
	Counts       EngagementCounts
}

// ViewerFacts are the viewer's derived aggregates. A nil ViewerFacts means an
// anonymous viewer: scoring degrades to recency plus capped engagement with no
// social, collective or preference terms.
type ViewerFacts struct {
	ViewerID       uuid.UUID
	FellowIDs      map[uuid.UUID]struct{}
	CollectiveIDs  map[uuid.UUID]struct{}
	PreferredTypes []TypePreference
}

// TypePreference is one entry of the viewer's preferred-type histogram.
type TypePreference struct {
	PostType string
	Count    int64
}

// EngagementRaw computes the uncapped weighted engagement sum.
func EngagementRaw(c EngagementCounts) float64 {
	return float64(c.Hearts)*HeartWeight +
		float64(c.Praise)*PraiseWeight +
		float64(c.BronzeTrophies)*BronzeTrophyWeight +
		float64(c.GoldenTrophies)*GoldenTrophyWeight +
		float64(c.DiamondTrophies)*DiamondTrophyWeight +
		float64(c.PositiveCritiques)*PositiveCritiqueWeight +
		float64(c.NegativeCritiques)*NegativeCritiqueWeight +
		float64(c.NeutralCritiques)*NeutralCritiqueWeight +
		float64(c.Comments)*CommentWeight
}

// globalRecencyPoints buckets item age for the global leaderboard variant.
func globalRecencyPoints(createdAt, now time.Time) float64 {
	age := now.Sub(createdAt)
	switch {
	case age < 24*time.Hour:
		return 30
	case age < 48*time.Hour:
		return 15
	case age < 7*24*time.Hour:
		return 5
	default:
		return 1
	}
}

// personalRecencyPoints buckets item age for the personalized feed variant.
// Contributes flat points, not a percentage of the total.
func personalRecencyPoints(createdAt, now time.Time) float64 {
	age := now.Sub(createdAt)
	switch {
	case age < 24*time.Hour:
		return 15
	case age < 48*time.Hour:
		return 5
	default:
		return 1
	}
}

// Global computes the viewer-independent leaderboard score:
// recency * 0.30 + min(engagement, 100) * 0.70.
func Global(createdAt, now time.Time, c EngagementCounts) float64 {
	engagement := EngagementRaw(c)
	if engagement > GlobalEngagementCap {
		engagement = GlobalEngagementCap
	}
	return globalRecencyPoints(createdAt, now)*GlobalRecencyWeight + engagement*GlobalEngagementWeight
}

// Personal computes the feed score for one item as seen by viewer. With a nil
// viewer it is the degraded anonymous score: flat recency points plus capped
// weighted engagement only.
func Personal(item ItemFacts, viewer *ViewerFacts, now time.Time) float64 {
	engagement := EngagementRaw(item.Counts)
	if engagement > PersonalEngagementCap {
		engagement = PersonalEngagementCap
	}

	total := personalRecencyPoints(item.CreatedAt, now) + engagement*PersonalEngagementWeight

	if viewer == nil {
		return total
	}

	if _, ok := viewer.FellowIDs[item.AuthorID]; ok {
		total += FellowBonus
	}

	if item.CollectiveID != nil {
		if _, ok := viewer.CollectiveIDs[*item.CollectiveID]; ok {
			total += CollectiveBonus
		}
	}

	for _, pref := range topPreferences(viewer.PreferredTypes) {
		if pref.PostType == item.PostType {
			bonus := float64(pref.Count) * TypePreferenceStep
			if bonus > TypePreferenceMax {
				bonus = TypePreferenceMax
			}
			total += bonus
		}
	}

	if item.AuthorID == viewer.ViewerID {
		total -= OwnItemPenalty
	}

	return total
}

// topPreferences returns the viewer's top-3 most-interacted-with post types.
func topPreferences(prefs []TypePreference) []TypePreference {
	if len(prefs) <= TypePreferenceTopN {
		return prefs
	}
	sorted := make([]TypePreference, len(prefs))
	copy(sorted, prefs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted[:TypePreferenceTopN]
}

// Less orders two scored items: higher score first, ties broken by more
// recent created_at.
func Less(scoreI, scoreJ float64, createdI, createdJ time.Time) bool {
	if scoreI != scoreJ {
		return scoreI > scoreJ
	}
	return createdI.After(createdJ)
}
