package db

import (
	"time"

	"gorm.io/datatypes"
)

// College table (institutional reference for users)
type College struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex;size:128;not null"`
}

// User table
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FirstName    string `gorm:"size:64;not null"`
	CollegeID    uint64 `gorm:"not null;index"`
	College      College
	Interests    []Interest `gorm:"many2many:user_interests"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
}

// Profile is the 1:1 dating profile for a user.
//
// A profile counts as "complete" (and its owner as a swipe candidate) only
// when Bio, Gender and PictureURL are all non-empty. Lifestyle axes and
// PersonalityTraits may be absent; absent fields contribute nothing to
// compatibility scoring.
type Profile struct {
	UserID            uint64 `gorm:"primaryKey"`
	Bio               string `gorm:"type:text"`
	PictureURL        string `gorm:"size:512"`
	Picture2URL       string `gorm:"size:512"`
	Picture3URL       string `gorm:"size:512"`
	Gender            string `gorm:"size:16"`
	Seeking           string `gorm:"size:16"`
	DateOfBirth       time.Time
	HeightCm          uint16
	Occupation        string                      `gorm:"size:64"`
	RelationshipGoal  string                      `gorm:"size:32"`
	LifestyleDrinking string                      `gorm:"size:32"`
	LifestyleSmoking  string                      `gorm:"size:32"`
	LifestyleExercise string                      `gorm:"size:32"`
	PersonalityTraits datatypes.JSONSlice[string] `gorm:"type:json"`
	LookingFor        string                      `gorm:"type:text"`
	UpdatedAt         time.Time                   `gorm:"autoUpdateTime"`
}

// Interest is a shared catalog tag, joined to users via user_interests.
type Interest struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex;size:64;not null"`
}

// Swipe actions.
const (
	SwipeLike    = "like"
	SwipeDislike = "dislike"
)

// Swipe is one directed like/dislike decision.
//
// The ledger is append-only and carries NO uniqueness on (actor, target):
// a repeat swipe on the same target is stored as a new row. The composite
// index only serves the "already swiped" exclusion and the reciprocal-like
// lookup.
type Swipe struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ActorID   uint64    `gorm:"not null;index:idx_swipe_actor_target,priority:1"`
	TargetID  uint64    `gorm:"not null;index:idx_swipe_actor_target,priority:2"`
	Action    string    `gorm:"size:8;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// Match is a mutual-like pair stored once per unordered pair.
//
// Canonical form: UserLowID < UserHighID, whoever swiped last.
//
// Unique index idx_match_pair(user_low_id, user_high_id):
//   - Guarantees at most one row per pair when both sides' like-processing
//     races to materialize the match. Insertion goes through
//     ON CONFLICT DO NOTHING, so the loser of the race sees a no-op,
//     never an error.
type Match struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserLowID  uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	UserHighID uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Contains reports whether userID is one of the two match members.
func (m Match) Contains(userID uint64) bool {
	return m.UserLowID == userID || m.UserHighID == userID
}

// Peer returns the other member of the match relative to userID.
func (m Match) Peer(userID uint64) uint64 {
	if m.UserLowID == userID {
		return m.UserHighID
	}
	return m.UserLowID
}

// Message belongs to exactly one match; sender must be a match member
// (enforced by the chat service, not the schema).
type Message struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID  uint64    `gorm:"not null;index:idx_message_match_sent,priority:1"`
	SenderID uint64    `gorm:"not null"`
	Body     string    `gorm:"type:text;not null"`
	SentAt   time.Time `gorm:"autoCreateTime;index:idx_message_match_sent,priority:2"`
}
