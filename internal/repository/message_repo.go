package repository

import (
	"context"
	"time"

	"github.com/campusmatch/campusmatch/internal/db"

	"gorm.io/gorm"
)

// MessageRepository provides data access methods for match conversations.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// MessageRow is one conversation entry with the sender's display name.
type MessageRow struct {
	MessageID  uint64
	MatchID    uint64
	SenderID   uint64
	SenderName string
	Body       string
	SentAt     time.Time
}

// ListForMatch returns every message of a match ordered by sent time
// ascending (id breaks same-millisecond ties so replay order is stable).
func (r *MessageRepository) ListForMatch(ctx context.Context, matchID uint64) ([]MessageRow, error) {
	var rows []MessageRow
	err := r.db.WithContext(ctx).
		Table("messages msg").
		Select("msg.id AS message_id, msg.match_id, msg.sender_id, u.first_name AS sender_name, msg.body, msg.sent_at").
		Joins("JOIN users u ON u.id = msg.sender_id").
		Where("msg.match_id = ?", matchID).
		Order("msg.sent_at ASC, msg.id ASC").
		Find(&rows).Error
	return rows, err
}

// Append stores one message with a server-assigned timestamp.
// Membership of the sender in the match is the chat service's concern.
func (r *MessageRepository) Append(ctx context.Context, matchID, senderID uint64, body string) (*db.Message, error) {
	message := db.Message{
		MatchID:  matchID,
		SenderID: senderID,
		Body:     body,
	}
	if err := r.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}
