package engagement

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LikeStore is the slice of persistence the counter needs for like rows.
type LikeStore interface {
	Exists(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
	Add(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
	Remove(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
}

// CounterStore is the slice of persistence for the derived counters.
type CounterStore interface {
	AdjustLikesCount(ctx context.Context, postID uuid.UUID, delta int) error
	IncrementViews(ctx context.Context, postID uuid.UUID) error
	RecomputeLikesCount(ctx context.Context, postID uuid.UUID) (int, error)
}

// Counter maintains per-post like state and aggregate like/view counts.
//
// ToggleLike is a read-then-write sequence, but both the like insert and
// delete report whether a row actually changed and the counter is only
// adjusted when one did, so concurrent toggles by the same user cannot
// double-count. The counter itself is floored at zero in the store.
type Counter struct {
	likes  LikeStore
	posts  CounterStore
	logger *zap.SugaredLogger
}

func NewCounter(likes LikeStore, posts CounterStore, logger *zap.SugaredLogger) *Counter {
	return &Counter{likes: likes, posts: posts, logger: logger}
}

// ToggleLike flips the user's like on the post and returns the new
// liked state.
func (c *Counter) ToggleLike(ctx context.Context, postID uuid.UUID, userID string) (liked bool, err error) {
	exists, err := c.likes.Exists(ctx, postID, userID)
	if err != nil {
		return false, err
	}

	if exists {
		removed, err := c.likes.Remove(ctx, postID, userID)
		if err != nil {
			return false, err
		}
		if removed {
			if err := c.posts.AdjustLikesCount(ctx, postID, -1); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	added, err := c.likes.Add(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	if added {
		if err := c.posts.AdjustLikesCount(ctx, postID, 1); err != nil {
			return false, err
		}
	}
	return true, nil
}

// RecordView bumps the post's view counter. View counting is not a
// correctness-critical path, so failures are logged and swallowed.
func (c *Counter) RecordView(ctx context.Context, postID uuid.UUID) {
	if err := c.posts.IncrementViews(ctx, postID); err != nil {
		c.logger.Warnw("failed to record view", "post_id", postID, "error", err)
	}
}

// Reconcile resets the cached likes counter from the like rows. Meant
// for both ad-hoc repair and a periodic consistency job.
func (c *Counter) Reconcile(ctx context.Context, postID uuid.UUID) (int, error) {
	return c.posts.RecomputeLikesCount(ctx, postID)
}
