package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ItineraryItem is one persisted stop. Order is 1-based and assigned
// from sequence position at save time.
type ItineraryItem struct {
	PlaceName string   `json:"place_name"`
	Day       int      `json:"day"`
	Order     int      `json:"order"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	Memo      string   `json:"memo,omitempty"`
}

// Itinerary is the persistence shape of a saved plan.
type Itinerary struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"user_id"`
	Title     string          `json:"title"`
	Theme     string          `json:"theme,omitempty"`
	Items     []ItineraryItem `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

type ItinerariesStore struct {
	db *pgxpool.Pool
}

// Create inserts the itinerary and its items in one transaction.
func (s *ItinerariesStore) Create(ctx context.Context, it *Itinerary) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO itineraries (user_id, title, theme)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, query, it.UserID, it.Title, it.Theme).
		Scan(&it.ID, &it.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert itinerary: %w", err)
	}

	itemQuery := `
		INSERT INTO itinerary_items (itinerary_id, place_name, day, ord, lat, lng, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, item := range it.Items {
		if _, err := tx.Exec(ctx, itemQuery,
			it.ID, item.PlaceName, item.Day, item.Order, item.Lat, item.Lng, item.Memo,
		); err != nil {
			return fmt.Errorf("failed to insert itinerary item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *ItinerariesStore) GetByID(ctx context.Context, id uuid.UUID) (*Itinerary, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var it Itinerary
	query := `
		SELECT id, user_id, title, COALESCE(theme, ''), created_at
		FROM itineraries
		WHERE id = $1
	`
	err := s.db.QueryRow(ctx, query, id).
		Scan(&it.ID, &it.UserID, &it.Title, &it.Theme, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := s.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	it.Items = items

	return &it, nil
}

func (s *ItinerariesStore) itemsFor(ctx context.Context, id uuid.UUID) ([]ItineraryItem, error) {
	query := `
		SELECT place_name, day, ord, lat, lng, COALESCE(memo, '')
		FROM itinerary_items
		WHERE itinerary_id = $1
		ORDER BY day, ord
	`
	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get itinerary items: %w", err)
	}
	defer rows.Close()

	var items []ItineraryItem
	for rows.Next() {
		var item ItineraryItem
		if err := rows.Scan(&item.PlaceName, &item.Day, &item.Order, &item.Lat, &item.Lng, &item.Memo); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetByUser returns the user's itineraries, newest first, without items.
func (s *ItinerariesStore) GetByUser(ctx context.Context, userID string) ([]Itinerary, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, user_id, title, COALESCE(theme, ''), created_at
		FROM itineraries
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Itinerary
	for rows.Next() {
		var it Itinerary
		if err := rows.Scan(&it.ID, &it.UserID, &it.Title, &it.Theme, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Delete removes an itinerary owned by userID. Items go with it via
// ON DELETE CASCADE.
func (s *ItinerariesStore) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM itineraries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
