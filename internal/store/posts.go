package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Post is a community post. LikesCount is a derived cache of the likes
// table; the likes rows are the source of truth and RecomputeLikesCount
// reconciles drift.
type Post struct {
	ID           uuid.UUID  `json:"id"`
	AuthorID     string     `json:"author_id"`
	ItineraryID  *uuid.UUID `json:"itinerary_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	Region       string     `json:"region,omitempty"`
	Tags         []string   `json:"tags"`
	LikesCount   int        `json:"likes_count"`
	ViewsCount   int        `json:"views_count"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PostFilter narrows List results.
type PostFilter struct {
	Search string
	Region string
	Limit  int
	Offset int
}

type PostsStore struct {
	db *pgxpool.Pool
}

const postColumns = `id, user_id, itinerary_id, title, COALESCE(description, ''),
	COALESCE(thumbnail_url, ''), COALESCE(region, ''), tags,
	likes_count, views_count, is_active, created_at, updated_at`

func scanPost(row pgx.Row, p *Post) error {
	return row.Scan(
		&p.ID, &p.AuthorID, &p.ItineraryID, &p.Title, &p.Description,
		&p.ThumbnailURL, &p.Region, &p.Tags,
		&p.LikesCount, &p.ViewsCount, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (s *PostsStore) Create(ctx context.Context, post *Post) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO community_posts (user_id, itinerary_id, title, description, thumbnail_url, region, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, likes_count, views_count, is_active, created_at, updated_at
	`
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return s.db.QueryRow(ctx, query,
		post.AuthorID, post.ItineraryID, post.Title, post.Description,
		post.ThumbnailURL, post.Region, post.Tags,
	).Scan(&post.ID, &post.LikesCount, &post.ViewsCount, &post.IsActive, &post.CreatedAt, &post.UpdatedAt)
}

func (s *PostsStore) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var p Post
	query := fmt.Sprintf(`SELECT %s FROM community_posts WHERE id = $1`, postColumns)
	if err := scanPost(s.db.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns active posts, newest first, with optional search over
// title/description and an exact region filter.
func (s *PostsStore) List(ctx context.Context, filter PostFilter) ([]Post, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM community_posts WHERE is_active = true`, postColumns)
	args := []interface{}{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	if filter.Region != "" {
		args = append(args, filter.Region)
		query += fmt.Sprintf(" AND region = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostsStore) GetByAuthor(ctx context.Context, authorID string) ([]Post, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM community_posts WHERE user_id = $1 ORDER BY created_at DESC`, postColumns)
	rows, err := s.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := scanPost(rows, &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// updatableColumns maps the owner-editable fields to their columns.
var updatableColumns = map[string]string{
	"title":         "title",
	"description":   "description",
	"thumbnail_url": "thumbnail_url",
	"region":        "region",
	"tags":          "tags",
	"is_active":     "is_active",
}

// Update applies the given fields. Unknown field names are rejected
// before any SQL is built.
func (s *PostsStore) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := []interface{}{}
	for field, value := range fields {
		col, ok := updatableColumns[field]
		if !ok {
			return fmt.Errorf("cannot update field %q", field)
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE community_posts SET %s WHERE id = $%d`,
		strings.Join(setClauses, ", "), len(args))

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete flips is_active off for a post owned by authorID.
func (s *PostsStore) SoftDelete(ctx context.Context, id uuid.UUID, authorID string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		UPDATE community_posts
		SET is_active = false, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	tag, err := s.db.Exec(ctx, query, id, authorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostsStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`UPDATE community_posts SET views_count = views_count + 1 WHERE id = $1`, id)
	return err
}

// AdjustLikesCount shifts the cached counter by delta, floored at zero.
func (s *PostsStore) AdjustLikesCount(ctx context.Context, id uuid.UUID, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`UPDATE community_posts SET likes_count = GREATEST(likes_count + $2, 0) WHERE id = $1`,
		id, delta)
	return err
}

// RecomputeLikesCount resets the cached counter from the likes table
// and returns the recomputed value.
func (s *PostsStore) RecomputeLikesCount(ctx context.Context, id uuid.UUID) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	query := `
		UPDATE community_posts
		SET likes_count = (SELECT COUNT(*) FROM community_likes WHERE post_id = $1)
		WHERE id = $1
		RETURNING likes_count
	`
	if err := s.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return count, nil
}
