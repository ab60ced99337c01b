package repository

import (
	"context"
	"time"

	"github.com/campusmatch/campusmatch/internal/db"
	"github.com/campusmatch/campusmatch/internal/utils/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository provides data access methods for mutual-match records.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// MatchSummary is one entry of a user's match list: the match plus the
// peer's presentation fields.
type MatchSummary struct {
	MatchID     uint64
	CreatedAt   time.Time
	PeerID      uint64
	FirstName   string
	CollegeName string
	PictureURL  string
	Bio         string
}

// EnsureMatch inserts the canonical match row for an unordered pair.
//
// Behavior:
//   - Pair is canonicalized to (min, max) before insert, so the storage key
//     is the same no matter which side's like landed last.
//   - Insert goes through ON CONFLICT DO NOTHING against the unique
//     (user_low_id, user_high_id) index. When both sides' like-processing
//     races to create the row, exactly one insert wins and the other is a
//     silent no-op. Never guard this with application-level locking.
func (r *MatchRepository) EnsureMatch(ctx context.Context, userA, userB uint64) error {
	low, high := userA, userB
	if low > high {
		low, high = high, low
	}

	match := db.Match{UserLowID: low, UserHighID: high}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_low_id"}, {Name: "user_high_id"}},
			DoNothing: true,
		}).
		Create(&match).Error
}

// GetMatch returns one match row.
// Returns gorm.ErrRecordNotFound for an unknown id.
func (r *MatchRepository) GetMatch(ctx context.Context, matchID uint64) (*db.Match, error) {
	var match db.Match
	if err := r.db.WithContext(ctx).First(&match, matchID).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// ListForUser returns the user's matches newest-first with peer summaries.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC.
//   - Supports cursor-based pagination via paginationToken; fetches limit+1
//     rows to decide whether a next page exists.
func (r *MatchRepository) ListForUser(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]MatchSummary, *string, error) {
	var summaries []MatchSummary

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	peerExpr := "CASE WHEN m.user_low_id = ? THEN m.user_high_id ELSE m.user_low_id END"

	query := r.db.WithContext(ctx).
		Table("matches m").
		Select(`m.id AS match_id, m.created_at,
			`+peerExpr+` AS peer_id,
			u.first_name, c.name AS college_name, p.picture_url, p.bio`, userID).
		Joins("JOIN users u ON u.id = ("+peerExpr+")", userID).
		Joins("JOIN colleges c ON c.id = u.college_id").
		Joins("LEFT JOIN profiles p ON p.user_id = u.id").
		Where("m.user_low_id = ? OR m.user_high_id = ?", userID, userID).
		Order("m.created_at DESC, m.id DESC").
		Limit(limit + 1)

	if cursor.MatchID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(m.created_at < ? OR (m.created_at = ? AND m.id < ?))",
			ts, ts, cursor.MatchID,
		)
	}

	if err := query.Find(&summaries).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(summaries) > limit {
		last := summaries[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			MatchID:     last.MatchID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		summaries = summaries[:limit]
	}

	return summaries, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
