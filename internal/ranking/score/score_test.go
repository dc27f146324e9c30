package score

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagementRaw(t *testing.T) {
	counts := EngagementCounts{
		Hearts:            2,
		Praise:            1,
		BronzeTrophies:    1,
		GoldenTrophies:    1,
		DiamondTrophies:   1,
		PositiveCritiques: 1,
		NegativeCritiques: 1,
		NeutralCritiques:  1,
		Comments:          4,
	}

	// 2*1.0 + 3.5 + 10 + 15 + 20 + 8 + 3 + 3 + 4*0.5
	assert.InDelta(t, 66.5, EngagementRaw(counts), 1e-9)
}

func TestGlobalRecencyBuckets(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"under a day", 12 * time.Hour, 30 * GlobalRecencyWeight},
		{"under two days", 36 * time.Hour, 15 * GlobalRecencyWeight},
		{"under a week", 5 * 24 * time.Hour, 5 * GlobalRecencyWeight},
		{"older", 30 * 24 * time.Hour, 1 * GlobalRecencyWeight},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Global(now.Add(-tc.age), now, EngagementCounts{})
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestGlobalEngagementCap(t *testing.T) {
	now := time.Now()
	created := now.Add(-30 * 24 * time.Hour)

	// 20 diamond trophies = 400 raw, capped at 100.
	got := Global(created, now, EngagementCounts{DiamondTrophies: 20})
	want := 1*GlobalRecencyWeight + GlobalEngagementCap*GlobalEngagementWeight
	assert.InDelta(t, want, got, 1e-9)
}

func TestPersonalAnonymous(t *testing.T) {
	now := time.Now()

	fresh := ItemFacts{
		AuthorID:  uuid.New(),
		CreatedAt: now.Add(-12 * time.Hour),
		Counts:    EngagementCounts{Hearts: 2},
	}
	stale := ItemFacts{
		AuthorID:  uuid.New(),
		CreatedAt: now.Add(-3 * 24 * time.Hour),
	}

	// 15 recency + 2 hearts * 1.0 * 0.15
	assert.InDelta(t, 15.3, Personal(fresh, nil, now), 1e-9)
	assert.InDelta(t, 1.0, Personal(stale, nil, now), 1e-9)
}

func TestPersonalEngagementCap(t *testing.T) {
	now := time.Now()
	item := ItemFacts{
		AuthorID:  uuid.New(),
		CreatedAt: now.Add(-3 * 24 * time.Hour),
		Counts:    EngagementCounts{DiamondTrophies: 10}, // 200 raw, capped at 50
	}

	want := 1.0 + PersonalEngagementCap*PersonalEngagementWeight
	assert.InDelta(t, want, Personal(item, nil, now), 1e-9)
}

func TestPersonalFellowBonus(t *testing.T) {
	now := time.Now()
	author := uuid.New()
	item := ItemFacts{
		AuthorID:  author,
		CreatedAt: now.Add(-3 * 24 * time.Hour),
	}

	viewer := &ViewerFacts{
		ViewerID:  uuid.New(),
		FellowIDs: map[uuid.UUID]struct{}{author: {}},
	}

	assert.InDelta(t, 1.0+FellowBonus, Personal(item, viewer, now), 1e-9)
}

func TestPersonalCollectiveBonus(t *testing.T) {
	now := time.Now()
	collectiveID := uuid.New()
	item := ItemFacts{
		AuthorID:     uuid.New(),
		CreatedAt:    now.Add(-3 * 24 * time.Hour),
		CollectiveID: &collectiveID,
	}

	viewer := &ViewerFacts{
		ViewerID:      uuid.New(),
		CollectiveIDs: map[uuid.UUID]struct{}{collectiveID: {}},
	}

	assert.InDelta(t, 1.0+CollectiveBonus, Personal(item, viewer, now), 1e-9)
}

func TestPersonalOwnItemPenalty(t *testing.T) {
	now := time.Now()
	viewerID := uuid.New()
	item := ItemFacts{
		AuthorID:  viewerID,
		CreatedAt: now.Add(-12 * time.Hour),
	}

	viewer := &ViewerFacts{ViewerID: viewerID}

	// 15 recency - 20 own-item penalty; scores may go negative.
	assert.InDelta(t, -5.0, Personal(item, viewer, now), 1e-9)
}

func TestPersonalTypePreference(t *testing.T) {
	now := time.Now()
	item := ItemFacts{
		AuthorID:  uuid.New(),
		CreatedAt: now.Add(-3 * 24 * time.Hour),
		PostType:  "image",
	}

	t.Run("bonus scales with count", func(t *testing.T) {
		viewer := &ViewerFacts{
			ViewerID:       uuid.New(),
			PreferredTypes: []TypePreference{{PostType: "image", Count: 4}},
		}
		assert.InDelta(t, 1.0+0.4, Personal(item, viewer, now), 1e-9)
	})

	t.Run("bonus is capped", func(t *testing.T) {
		viewer := &ViewerFacts{
			ViewerID:       uuid.New(),
			PreferredTypes: []TypePreference{{PostType: "image", Count: 50}},
		}
		assert.InDelta(t, 1.0+TypePreferenceMax, Personal(item, viewer, now), 1e-9)
	})

	t.Run("only top three types count", func(t *testing.T) {
		viewer := &ViewerFacts{
			ViewerID: uuid.New(),
			PreferredTypes: []TypePreference{
				{PostType: "video", Count: 9},
				{PostType: "novel", Count: 8},
				{PostType: "default", Count: 7},
				{PostType: "image", Count: 2},
			},
		}
		// "image" is ranked fourth, so no bonus applies.
		assert.InDelta(t, 1.0, Personal(item, viewer, now), 1e-9)
	})
}

func TestLess(t *testing.T) {
	now := time.Now()

	require.True(t, Less(10, 5, now, now))
	require.False(t, Less(5, 10, now, now))

	// Equal scores break ties by recency, newest first.
	older := now.Add(-time.Hour)
	require.True(t, Less(5, 5, now, older))
	require.False(t, Less(5, 5, older, now))
}
