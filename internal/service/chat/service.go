package chat

import (
	"context"
	"errors"
	"time"

	"github.com/campusmatch/campusmatch/internal/app"
	"github.com/campusmatch/campusmatch/internal/db"
	svcErr "github.com/campusmatch/campusmatch/internal/errors"
	"github.com/campusmatch/campusmatch/internal/repository"

	"gorm.io/gorm"
)

// Service is the messaging gate: every read and write is authorized against
// match membership before it touches the conversation.
type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	messageRepo *repository.MessageRepository
}

// NewService creates a chat service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
	}
}

// MessageView is one conversation entry annotated for the requester.
type MessageView struct {
	MessageID  uint64    `json:"message_id"`
	SenderID   uint64    `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	Body       string    `json:"body"`
	SentAt     time.Time `json:"sent_at"`
	IsMe       bool      `json:"is_me"`
}

// List returns the match's messages ordered by sent time ascending.
//
// Fails with NotFound for an unknown match and PermissionDenied when the
// requester is not one of the two members.
func (s *Service) List(ctx context.Context, requesterID, matchID uint64) ([]MessageView, error) {
	s.appCtx.Logger.Debug("List messages", "requester", requesterID, "match", matchID)

	if _, err := s.authorize(ctx, requesterID, matchID); err != nil {
		return nil, err
	}

	rows, err := s.messageRepo.ListForMatch(ctx, matchID)
	if err != nil {
		s.appCtx.Logger.Error("message listing failed", "match", matchID, "err", err)
		return nil, svcErr.Map(err)
	}

	views := make([]MessageView, 0, len(rows))
	for _, row := range rows {
		views = append(views, MessageView{
			MessageID:  row.MessageID,
			SenderID:   row.SenderID,
			SenderName: row.SenderName,
			Body:       row.Body,
			SentAt:     row.SentAt,
			IsMe:       row.SenderID == requesterID,
		})
	}
	return views, nil
}

// Send appends one message from the requester to the match.
//
// Same membership gate as List; empty text is InvalidArgument. The sent
// timestamp is server-assigned.
func (s *Service) Send(ctx context.Context, requesterID, matchID uint64, text string) (*MessageView, error) {
	s.appCtx.Logger.Debug("Send message", "requester", requesterID, "match", matchID)

	if text == "" {
		return nil, svcErr.InvalidArgument("message text is required")
	}

	if _, err := s.authorize(ctx, requesterID, matchID); err != nil {
		return nil, err
	}

	message, err := s.messageRepo.Append(ctx, matchID, requesterID, text)
	if err != nil {
		s.appCtx.Logger.Error("message append failed", "match", matchID, "err", err)
		return nil, svcErr.Map(err)
	}

	return &MessageView{
		MessageID: message.ID,
		SenderID:  message.SenderID,
		Body:      message.Body,
		SentAt:    message.SentAt,
		IsMe:      true,
	}, nil
}

// authorize loads the match and checks the requester's membership.
func (s *Service) authorize(ctx context.Context, requesterID, matchID uint64) (*db.Match, error) {
	match, err := s.matchRepo.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.NotFound("match not found")
		}
		s.appCtx.Logger.Error("match lookup failed", "match", matchID, "err", err)
		return nil, svcErr.Map(err)
	}
	if !match.Contains(requesterID) {
		return nil, svcErr.PermissionDenied("access denied to this match")
	}
	return match, nil
}
