package models

import "time"

// FollowerRelation is one directed edge of the follower graph: FollowerID
// follows FolloweeID. The store allows at most one row per ordered pair.
type FollowerRelation struct {
	FollowerID int64
	FolloweeID int64
	CreatedAt  time.Time
}
