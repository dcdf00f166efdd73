package repository

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/domain"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/repository/dao"
)

var (
	ErrMessageNotFound = dao.ErrMessageNotFound
)

type MessageDAO interface {
	Insert(ctx context.Context, message dao.Message) (dao.Message, error)
	FindByID(ctx context.Context, id string) (dao.Message, error)
	FindVisibleTo(ctx context.Context, requester, broadcast string, limit int) ([]dao.Message, error)
	Update(ctx context.Context, message dao.Message) (dao.Message, error)
	Delete(ctx context.Context, id string) error
}

type MessageRepository struct {
	dao MessageDAO
}

func NewMessageRepository(dao MessageDAO) *MessageRepository {
	return &MessageRepository{
		dao: dao,
	}
}

func (r *MessageRepository) Create(ctx context.Context, message domain.Message) (domain.Message, error) {
	created, err := r.dao.Insert(ctx, messageDomainToDAO(message))
	if err != nil {
		return domain.Message{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return messageDAOToDomain(created), nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (domain.Message, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Message{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return messageDAOToDomain(found), nil
}

func (r *MessageRepository) FindVisibleTo(ctx context.Context, requester string, limit int) ([]domain.Message, error) {
	found, err := r.dao.FindVisibleTo(ctx, requester, domain.BroadcastRecipient, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindVisibleTo -> %w", err)
	}

	messages := make([]domain.Message, 0, len(found))
	for _, m := range found {
		messages = append(messages, messageDAOToDomain(m))
	}

	return messages, nil
}

func (r *MessageRepository) Update(ctx context.Context, message domain.Message) (domain.Message, error) {
	updated, err := r.dao.Update(ctx, messageDomainToDAO(message))
	if err != nil {
		return domain.Message{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return messageDAOToDomain(updated), nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func messageDomainToDAO(m domain.Message) dao.Message {
	return dao.Message{
		ID:        m.ID,
		Sender:    m.From,
		Recipient: m.To,
		Text:      m.Text,
		Type:      string(m.Type),
		Time:      m.Time,
	}
}

func messageDAOToDomain(m dao.Message) domain.Message {
	return domain.Message{
		ID:   m.ID,
		From: m.Sender,
		To:   m.Recipient,
		Text: m.Text,
		Type: domain.MessageType(m.Type),
		Time: m.Time,
	}
}
