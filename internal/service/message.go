package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/domain"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/repository"
)

var (
	ErrMessageNotFound = repository.ErrMessageNotFound

	// ErrMessageNotOwned is returned when a caller touches a message sent
	// by someone else. Deliberately distinct from ErrMessageNotFound.
	ErrMessageNotOwned = errors.New("message belongs to another participant")
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) (domain.Message, error)
	FindByID(ctx context.Context, id string) (domain.Message, error)
	FindVisibleTo(ctx context.Context, requester string, limit int) ([]domain.Message, error)
	Update(ctx context.Context, message domain.Message) (domain.Message, error)
	Delete(ctx context.Context, id string) error
}

type MessageService struct {
	repo MessageRepository
}

func NewMessageService(repo MessageRepository) *MessageService {
	return &MessageService{
		repo: repo,
	}
}

// Send persists a caller-authored message stamped with the current time.
// The caller's registration has already been checked by the identity guard.
func (s *MessageService) Send(ctx context.Context, message domain.Message) (domain.Message, error) {
	message.Time = time.Now().Format(domain.TimeLayout)

	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return domain.Message{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// ListMessages returns the messages visible to the requester, newest first.
// limit <= 0 means the full list.
func (s *MessageService) ListMessages(ctx context.Context, requester string, limit int) ([]domain.Message, error) {
	messages, err := s.repo.FindVisibleTo(ctx, requester, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindVisibleTo -> %w", err)
	}

	return messages, nil
}

// UpdateMessage replaces an existing message's recipient, text and type,
// re-stamping time and sender. Only the original sender may update.
func (s *MessageService) UpdateMessage(ctx context.Context, id, from string, message domain.Message) (domain.Message, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Message{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if existing.From != from {
		return domain.Message{}, ErrMessageNotOwned
	}

	message.ID = existing.ID
	message.From = from
	message.Time = time.Now().Format(domain.TimeLayout)

	updated, err := s.repo.Update(ctx, message)
	if err != nil {
		return domain.Message{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteMessage removes an existing message. Only the original sender may
// delete; a gone message stays gone.
func (s *MessageService) DeleteMessage(ctx context.Context, id, from string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if existing.From != from {
		return ErrMessageNotOwned
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
