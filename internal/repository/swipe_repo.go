package repository

import (
	"context"

	"github.com/campusmatch/campusmatch/internal/db"

	"gorm.io/gorm"
)

// SwipeRepository provides data access methods for the swipe ledger.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Append records one directed decision.
//
// The ledger deliberately has no uniqueness on (actor, target): resubmitting
// the same pair stores one more row. Validation (actor != target, known
// action) happens in the service before this is called.
func (r *SwipeRepository) Append(ctx context.Context, actorID, targetID uint64, action string) (*db.Swipe, error) {
	swipe := db.Swipe{
		ActorID:  actorID,
		TargetID: targetID,
		Action:   action,
	}
	if err := r.db.WithContext(ctx).Create(&swipe).Error; err != nil {
		return nil, err
	}
	return &swipe, nil
}

// HasLiked checks whether an actor has a like row for a target.
//
// Used for the reciprocal check during match formation.
func (r *SwipeRepository) HasLiked(ctx context.Context, actorID, targetID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("actor_id = ? AND target_id = ? AND action = ?", actorID, targetID, db.SwipeLike).
		Count(&count).Error
	return count > 0, err
}

// CountLikesReceived counts distinct admirers of a user.
//
// Distinct actors, not ledger rows: duplicate swipes must not inflate the
// counter. Used with the Redis counter cache (DB is the fallback).
func (r *SwipeRepository) CountLikesReceived(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Distinct("actor_id").
		Where("target_id = ? AND action = ?", userID, db.SwipeLike).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
