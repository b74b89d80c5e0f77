package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Itineraries interface {
		Create(context.Context, *Itinerary) error
		GetByID(context.Context, uuid.UUID) (*Itinerary, error)
		GetByUser(context.Context, string) ([]Itinerary, error)
		Delete(context.Context, uuid.UUID, string) error
	}
	Posts interface {
		Create(context.Context, *Post) error
		GetByID(context.Context, uuid.UUID) (*Post, error)
		List(context.Context, PostFilter) ([]Post, error)
		GetByAuthor(context.Context, string) ([]Post, error)
		Update(context.Context, uuid.UUID, map[string]interface{}) error
		SoftDelete(context.Context, uuid.UUID, string) error
		IncrementViews(context.Context, uuid.UUID) error
		AdjustLikesCount(context.Context, uuid.UUID, int) error
		RecomputeLikesCount(context.Context, uuid.UUID) (int, error)
	}
	Likes interface {
		Add(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
		Remove(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
		Exists(ctx context.Context, postID uuid.UUID, userID string) (bool, error)
		CountForPost(ctx context.Context, postID uuid.UUID) (int, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Itineraries: &ItinerariesStore{db},
		Posts:       &PostsStore{db},
		Likes:       &LikesStore{db},
	}
}
