package swipe

import (
	"context"

	"github.com/campusmatch/campusmatch/internal/app"
	"github.com/campusmatch/campusmatch/internal/db"
	svcErr "github.com/campusmatch/campusmatch/internal/errors"
	"github.com/campusmatch/campusmatch/internal/repository"
)

// MatchPageSize is how many matches one listing page carries.
const MatchPageSize = 50

// Service owns the swipe ledger, match formation, and the admirer counter.
type Service struct {
	appCtx    *app.AppContext
	swipeRepo *repository.SwipeRepository
	matchRepo *repository.MatchRepository
}

// NewService creates a swipe service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		swipeRepo: repository.NewSwipeRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
	}
}

// Record appends one swipe and, for likes, runs match formation.
//
// Behavior:
//   - Rejects self-swipes and unknown actions with InvalidArgument.
//   - Appends the ledger row; a repeat swipe on the same target is stored
//     again (the ledger is append-only by design of the source system).
//   - On a like with an existing reciprocal like, materializes the canonical
//     match via insert-or-ignore. Matched is true exactly when the
//     reciprocal like was found, whether or not THIS call inserted the row —
//     two concurrent mutual likes both report matched.
func (s *Service) Record(ctx context.Context, actorID, targetID uint64, action string) (bool, error) {
	s.appCtx.Logger.Debug("Record swipe", "actor", actorID, "target", targetID, "action", action)

	if targetID == 0 {
		return false, svcErr.InvalidArgument("target_id is required")
	}
	if action != db.SwipeLike && action != db.SwipeDislike {
		return false, svcErr.InvalidArgument(`action must be "like" or "dislike"`)
	}
	if actorID == targetID {
		return false, svcErr.InvalidArgument("cannot swipe on yourself")
	}

	if _, err := s.swipeRepo.Append(ctx, actorID, targetID, action); err != nil {
		s.appCtx.Logger.Error("swipe append failed", "actor", actorID, "target", targetID, "err", err)
		return false, svcErr.Map(err)
	}

	if action == db.SwipeLike {
		// Invalidate the target's cached admirer count; the next read
		// recounts distinct actors from the ledger.
		_ = s.appCtx.RedisCache.Del(ctx, s.appCtx.RedisCache.KeyForLikeCount(targetID))
	}

	if action != db.SwipeLike {
		return false, nil
	}

	reciprocal, err := s.swipeRepo.HasLiked(ctx, targetID, actorID)
	if err != nil {
		s.appCtx.Logger.Error("reciprocal check failed", "actor", actorID, "target", targetID, "err", err)
		return false, svcErr.Map(err)
	}
	if !reciprocal {
		return false, nil
	}

	if err := s.matchRepo.EnsureMatch(ctx, actorID, targetID); err != nil {
		s.appCtx.Logger.Error("match insert failed", "actor", actorID, "target", targetID, "err", err)
		return false, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("mutual like", "actor", actorID, "target", targetID)
	return true, nil
}

// AdmirerCount returns how many distinct users liked the given user.
// Cache-first strategy:
//  1. Attempts to read the Redis counter (TTL refreshed on hit).
//  2. On miss, falls back to the ledger aggregate.
//  3. Writes the fresh count back with a 1h TTL.
func (s *Service) AdmirerCount(ctx context.Context, userID uint64) (int64, error) {
	s.appCtx.Logger.Debug("AdmirerCount called", "user", userID)

	if cached, found, err := s.appCtx.RedisCache.GetLikeCount(ctx, userID); err == nil && found {
		return cached, nil
	}

	count, err := s.swipeRepo.CountLikesReceived(ctx, userID)
	if err != nil {
		s.appCtx.Logger.Error("admirer count failed", "user", userID, "err", err)
		return 0, svcErr.Map(err)
	}

	_ = s.appCtx.RedisCache.UpdateLikeCount(ctx, userID, count)
	return count, nil
}

// Matches lists the requester's matches newest-first with peer summaries.
func (s *Service) Matches(ctx context.Context, userID uint64, paginationToken *string) ([]repository.MatchSummary, *string, error) {
	s.appCtx.Logger.Debug("Matches called", "user", userID)

	summaries, nextToken, err := s.matchRepo.ListForUser(ctx, userID, paginationToken, MatchPageSize)
	if err != nil {
		s.appCtx.Logger.Error("match listing failed", "user", userID, "err", err)
		return nil, nil, svcErr.Map(err)
	}
	return summaries, nextToken, nil
}
