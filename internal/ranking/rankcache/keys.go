package rankcache

import (
	"fmt"

	"github.com/google/uuid"
)

// Cache key formats. Personalized result keys embed the viewer's calculation
// version; bumping the version orphans every entry built against the old one.

const AnonSegment = "anon"

// PostListKey keys one personalized (or anonymous) feed page.
// post_list:{user_id|anon}:calc_v{version}:{page}:{page_size}
func PostListKey(viewerSegment string, version int64, page, pageSize int) string {
	return fmt.Sprintf("post_list:%s:calc_v%d:%d:%d", viewerSegment, version, page, pageSize)
}

// ViewerSegment renders the viewer portion of personalized keys.
func ViewerSegment(viewerID *uuid.UUID) string {
	if viewerID == nil {
		return AnonSegment
	}
	return viewerID.String()
}

// GlobalTopPostsKey keys the viewer-independent post leaderboard.
// global_top_posts:{limit}[:{post_type}]
func GlobalTopPostsKey(limit int, postType string) string {
	if postType == "" {
		return fmt.Sprintf("global_top_posts:%d", limit)
	}
	return fmt.Sprintf("global_top_posts:%d:%s", limit, postType)
}

// GlobalTopGalleriesKey keys the viewer-independent gallery leaderboard.
func GlobalTopGalleriesKey(limit int) string {
	return fmt.Sprintf("global_top_galleries:%d", limit)
}

func UserFellowsKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_fellows:%s", userID)
}

func UserJoinedCollectivesKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_joined_collectives:%s", userID)
}

func UserInteractionStatsKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_interaction_stats:%s", userID)
}

func CalcVersionKey(userID uuid.UUID) string {
	return fmt.Sprintf("calc_version:%s", userID)
}

// ItemCountsKey keys the narrow per-item interaction count hash.
func ItemCountsKey(itemKind string, itemID uuid.UUID) string {
	return fmt.Sprintf("counts:%s:%s", itemKind, itemID)
}

// ItemDetailKey keys one item's cached detail payload.
func ItemDetailKey(itemKind string, itemID uuid.UUID) string {
	return fmt.Sprintf("%s_detail:%s", itemKind, itemID)
}

// ListPattern is the SCAN pattern covering every cached list page for an item kind.
func ListPattern(itemKind string) string {
	return fmt.Sprintf("%s_list:*", itemKind)
}
