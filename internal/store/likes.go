package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LikesStore holds the (post, user) like rows. Row presence is the
// source of truth for liked state; community_posts.likes_count is a
// derived cache maintained alongside.
type LikesStore struct {
	db *pgxpool.Pool
}

// Add inserts the like and reports whether a row was actually created.
// A second Add for the same pair is a no-op returning false.
func (s *LikesStore) Add(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO community_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	tag, err := s.db.Exec(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Remove deletes the like and reports whether a row existed.
func (s *LikesStore) Remove(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		DELETE FROM community_likes
		WHERE post_id = $1 AND user_id = $2
	`
	tag, err := s.db.Exec(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *LikesStore) Exists(ctx context.Context, postID uuid.UUID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var exists bool
	query := `
		SELECT EXISTS (
		  SELECT 1 FROM community_likes
		  WHERE post_id = $1 AND user_id = $2
		)
	`
	err := s.db.QueryRow(ctx, query, postID, userID).Scan(&exists)
	return exists, err
}

func (s *LikesStore) CountForPost(ctx context.Context, postID uuid.UUID) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM community_likes WHERE post_id = $1`, postID).Scan(&count)
	return count, err
}
