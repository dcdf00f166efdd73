package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMessageNotFound = errors.New("message not found")
)

type Message struct {
	ID string `gorm:"primaryKey;type:uuid"`

	Sender    string `gorm:"not null;index"`
	Recipient string `gorm:"not null;index"`
	Text      string `gorm:"not null"`
	Type      string `gorm:"not null"`
	Time      string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// newMessageID assigns the opaque store identifier for a message.
func newMessageID() string {
	return uuid.NewString()
}

type MessageDAO struct {
	db *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{
		db: db,
	}
}

func (d *MessageDAO) Insert(ctx context.Context, message Message) (Message, error) {
	message.ID = newMessageID()

	result := d.db.WithContext(ctx).Create(&message)
	if result.Error != nil {
		return Message{}, result.Error
	}

	return message, nil
}

func (d *MessageDAO) FindByID(ctx context.Context, id string) (Message, error) {
	var message Message

	result := d.db.WithContext(ctx).First(&message, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Message{}, ErrMessageNotFound
		}

		return Message{}, result.Error
	}

	return message, nil
}

// FindVisibleTo returns the messages the requester may read, newest first:
// broadcasts plus anything sent by or addressed to them. limit <= 0 means
// no truncation.
func (d *MessageDAO) FindVisibleTo(ctx context.Context, requester, broadcast string, limit int) ([]Message, error) {
	var messages []Message

	query := d.db.WithContext(ctx).
		Where("recipient = ? OR recipient = ? OR sender = ?", broadcast, requester, requester).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	result := query.Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}

	return messages, nil
}

// Update replaces the mutable fields of an existing message.
func (d *MessageDAO) Update(ctx context.Context, message Message) (Message, error) {
	result := d.db.WithContext(ctx).
		Model(&Message{}).
		Where("id = ?", message.ID).
		Updates(map[string]interface{}{
			"sender":    message.Sender,
			"recipient": message.Recipient,
			"text":      message.Text,
			"type":      message.Type,
			"time":      message.Time,
		})
	if result.Error != nil {
		return Message{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Message{}, ErrMessageNotFound
	}

	return d.FindByID(ctx, message.ID)
}

func (d *MessageDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Message{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}

	return nil
}
